// Command rkns-diagnose converts recordings to RKNS containers and inspects them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/robert-malhotra/go-rkns/config"
	"github.com/robert-malhotra/go-rkns/rkns"
	"github.com/robert-malhotra/go-rkns/store"
)

func loadConfig(cmd *cli.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadFile(cmd.String("config"))
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Logger(os.Stderr), nil
}

func containerOptions(cfg *config.Config, log zerolog.Logger) []rkns.Option {
	return []rkns.Option{
		rkns.WithLogger(log),
		rkns.WithValidation(cfg.Ingest.Validate),
		rkns.WithArrayOptions(cfg.ArrayOptions()...),
		rkns.WithChunkRows(cfg.Store.ChunkRows),
	}
}

// openContainer opens path as a container. With the badger backend path
// is a badger database; otherwise it is handed to rkns.FromFile, so a
// source recording is converted in memory.
func openContainer(cfg *config.Config, log zerolog.Logger, path string) (*rkns.Container, error) {
	opts := containerOptions(cfg, log)
	if cfg.Store.Backend != config.BackendBadger {
		return rkns.FromFile(path, opts...)
	}
	cfg.Store.Path = path
	cs, err := cfg.OpenStore()
	if err != nil {
		return nil, err
	}
	c, err := rkns.Open(cs, opts...)
	if err != nil {
		_ = cs.Close()
		return nil, err
	}
	return c, nil
}

func convert(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: %s convert <source> <target>", cmd.Root().Name)
	}
	source, target := cmd.Args().Get(0), cmd.Args().Get(1)

	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Store.Backend == config.BackendMemory {
		cfg.Store.Backend = config.BackendDirectory
	}
	cfg.Store.Path = target
	cs, err := cfg.OpenStore()
	if err != nil {
		return err
	}

	opts := append(containerOptions(cfg, log), rkns.WithTargetStore(cs))
	if cfg.Ingest.Overwrite || cmd.Bool("overwrite") {
		opts = append(opts, rkns.WithOverwrite())
	}
	c, err := rkns.FromFile(source, opts...)
	if err != nil {
		_ = cs.Close()
		return err
	}
	defer c.Close()

	names, err := c.FrequencyGroupNames()
	if err != nil {
		return err
	}
	log.Info().
		Str("source", source).
		Str("target", target).
		Strs("frequency_groups", names).
		Msg("converted")
	return nil
}

func inspect(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: %s inspect <container>", cmd.Root().Name)
	}
	path := cmd.Args().First()

	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c, err := openContainer(cfg, log, path)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Printf("=== Analyzing %s ===\n\n", path)

	state, err := c.State()
	if err != nil {
		return err
	}
	fmt.Printf("State: %s\n", state)

	if info, err := c.RawInfo(); err == nil {
		fmt.Printf("Source: %s (%s, %d bytes, md5 %s)\n", info.Filename, info.Format, info.Size, info.MD5)
	}

	if state == rkns.StateNormalized {
		names, err := c.FrequencyGroupNames()
		if err != nil {
			return err
		}
		h, err := c.Hierarchy()
		if err != nil {
			return err
		}
		for _, name := range names {
			channels, err := h.ChannelsByFrequencyGroup(name)
			if err != nil {
				return err
			}
			fmt.Printf("  %s: %v\n", name, channels)
		}
		if p, err := c.PatientInfo(); err == nil {
			b, _ := json.Marshal(p)
			fmt.Printf("Patient: %s\n", b)
		}
		if a, err := c.AdminInfo(); err == nil {
			b, _ := json.Marshal(a)
			fmt.Printf("Admin: %s\n", b)
		}
	}
	fmt.Println()

	tree, err := c.Tree(int(cmd.Int("depth")), cmd.Bool("attrs"))
	if err != nil {
		return err
	}
	fmt.Print(tree)

	if cmd.Bool("list-attrs") {
		h, err := c.Hierarchy()
		if err != nil {
			return err
		}
		f, err := h.File()
		if err != nil {
			return err
		}
		fmt.Println()
		err = f.WalkAttrs(func(info store.AttrInfo) error {
			if info.Err != nil {
				fmt.Printf("%s: ERROR %v\n", info.Path, info.Err)
				return nil
			}
			b, err := json.Marshal(info.Value)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s) = %s\n", info.Path, info.ObjectType, b)
			return nil
		})
		if err != nil {
			return err
		}
	}

	if cmd.Bool("validate") {
		if err := c.CheckValidity(); err != nil {
			return fmt.Errorf("container is invalid: %w", err)
		}
		fmt.Println("\nContainer is valid")
	}
	return nil
}

func reconstruct(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: %s reconstruct <container> <output>", cmd.Root().Name)
	}
	path, out := cmd.Args().Get(0), cmd.Args().Get(1)

	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c, err := openContainer(cfg, log, path)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.ReconstructOriginalFile(out); err != nil {
		return err
	}
	log.Info().Str("output", out).Msg("original file reconstructed")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "rkns-diagnose",
		Usage: "Convert EDF/BDF recordings to RKNS containers and inspect them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("RKNS_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert a source recording into a container",
				ArgsUsage: "<source> <target>",
				Action:    convert,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Replace an existing container at the target",
					},
				},
			},
			{
				Name:      "inspect",
				Usage:     "Print the state, metadata and hierarchy of a container",
				ArgsUsage: "<container>",
				Action:    inspect,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "depth",
						Usage: "Maximum tree depth, negative for unlimited",
						Value: -1,
					},
					&cli.BoolFlag{
						Name:  "attrs",
						Usage: "Show attributes",
					},
					&cli.BoolFlag{
						Name:  "list-attrs",
						Usage: "List every attribute with its full path",
					},
					&cli.BoolFlag{
						Name:  "validate",
						Usage: "Check the container layout",
					},
				},
			},
			{
				Name:      "reconstruct",
				Usage:     "Write the original source file back out",
				ArgsUsage: "<container> <output>",
				Action:    reconstruct,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
