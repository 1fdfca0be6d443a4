package rkns

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-rkns/store"
)

// Node names of the container layout.
const (
	rawName         = "_raw"
	rawSignalName   = "signal"
	historyName     = "history"
	popisName       = "popis"
	rknsName        = "rkns"
	signalsName     = "signals"
	annotationsName = "annotations"

	signalArrayName = "signal"
	minMaxArrayName = "signal_minmaxs"
)

// Attribute names.
const (
	attrHeader       = "rkns_header"
	attrCreationTime = "creation_time"
	attrFormat       = "format"
	attrFilename     = "filename"
	attrModTime      = "modification_time"
	attrMD5          = "md5"
	attrPatientInfo  = "patient_info"
	attrAdminInfo    = "admin_info"
	attrChannelInfo  = "channel_info"
	attrChannels     = "channels"
	attrSampleRate   = "sfreq_Hz"
)

// Version is the container schema version written to rkns_header.
const Version = "0.1.0"

// Implementation identifies this library in rkns_header.
const Implementation = "go"

// Header is the rkns_header root attribute.
type Header struct {
	Version        string `json:"rkns_version"`
	Implementation string `json:"rkns_implementation"`
}

// layoutGroups are created with every new container.
var layoutGroups = []string{
	rawName,
	historyName,
	popisName,
	rknsName + "/" + signalsName,
	rknsName + "/" + annotationsName,
}

// Hierarchy manages the fixed node layout of a container on a store.
type Hierarchy struct {
	file   *store.File
	log    zerolog.Logger
	closed bool
}

// OpenHierarchy opens an existing container. The root must exist and carry
// rkns_header; a header from another implementation or version is logged
// and otherwise accepted.
func OpenHierarchy(cs store.ChunkedStore, mode store.Mode, log zerolog.Logger) (*Hierarchy, error) {
	f, err := store.Open(cs, mode, store.WithLogger(log))
	if err != nil {
		return nil, storeErr(err)
	}
	h := &Hierarchy{file: f, log: log}

	var hdr Header
	if err := f.Root().AttrInto(attrHeader, &hdr); err != nil {
		_ = f.Close()
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: root has no %s", ErrNotFound, attrHeader)
		}
		return nil, &ParseError{Path: "/" + attrHeader, Err: err}
	}
	if hdr.Implementation != Implementation || hdr.Version != Version {
		log.Warn().
			Str("implementation", hdr.Implementation).
			Str("version", hdr.Version).
			Str("expected_version", Version).
			Msg("container written by a different implementation or version")
	}
	return h, nil
}

// CreateHierarchy creates a new container with the standard layout. With
// overwrite unset, a store that already holds keys is refused.
func CreateHierarchy(cs store.ChunkedStore, overwrite bool, log zerolog.Logger) (*Hierarchy, error) {
	mode := store.ModeCreate
	if overwrite {
		mode = store.ModeOverwrite
	}
	f, err := store.Open(cs, mode, store.WithLogger(log))
	if err != nil {
		return nil, storeErr(err)
	}
	h := &Hierarchy{file: f, log: log}

	root := f.Root()
	err = root.SetAttrs(map[string]interface{}{
		attrHeader:       Header{Version: Version, Implementation: Implementation},
		attrCreationTime: float64(time.Now().UnixNano()) / 1e9,
	})
	if err == nil {
		err = h.CreateGroups(layoutGroups, overwrite)
	}
	if err != nil {
		_ = f.Close()
		return nil, storeErr(err)
	}
	return h, nil
}

func (h *Hierarchy) check() error {
	if h.closed {
		return ErrClosed
	}
	return nil
}

// File returns the underlying store file.
func (h *Hierarchy) File() (*store.File, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return h.file, nil
}

// Root returns the root group.
func (h *Hierarchy) Root() (*store.Group, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	return h.file.Root(), nil
}

// Raw returns a read-only handle on the raw zone.
func (h *Hierarchy) Raw() (*store.Group, error) {
	g, err := h.group(rawName)
	if err != nil {
		return nil, err
	}
	return g.ReadOnly(), nil
}

// rawWritable is used by the ingestion path, the only writer of the raw zone.
func (h *Hierarchy) rawWritable() (*store.Group, error) {
	return h.group(rawName)
}

// RKNS returns the normalized zone.
func (h *Hierarchy) RKNS() (*store.Group, error) {
	return h.group(rknsName)
}

// Signals returns the group holding the frequency groups.
func (h *Hierarchy) Signals() (*store.Group, error) {
	return h.group(rknsName + "/" + signalsName)
}

func (h *Hierarchy) group(p string) (*store.Group, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	g, err := h.file.OpenGroup(p)
	if err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

// FrequencyGroup opens rkns/signals/<tag>.
func (h *Hierarchy) FrequencyGroup(tag string) (*store.Group, error) {
	if !strings.HasPrefix(tag, frequencyGroupPrefix) {
		return nil, fmt.Errorf("%w: %q is not a frequency group name", ErrValue, tag)
	}
	return h.group(rknsName + "/" + signalsName + "/" + tag)
}

// ChannelsByFrequencyGroup returns the ordered channel names of a group.
func (h *Hierarchy) ChannelsByFrequencyGroup(tag string) ([]string, error) {
	g, err := h.FrequencyGroup(tag)
	if err != nil {
		return nil, err
	}
	var channels []string
	if err := g.AttrInto(attrChannels, &channels); err != nil {
		return nil, storeErr(err)
	}
	return channels, nil
}

// CreateGroup creates a group at an absolute or root-relative path.
// Existing groups are refused unless overwrite is set, in which case they
// are deleted and recreated empty.
func (h *Hierarchy) CreateGroup(p string, overwrite bool) (*store.Group, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	g, err := h.file.Root().CreateGroup(p, overwrite)
	if err != nil {
		return nil, storeErr(err)
	}
	return g, nil
}

// CreateGroups creates every path in paths with CreateGroup semantics.
func (h *Hierarchy) CreateGroups(paths []string, overwrite bool) error {
	for _, p := range paths {
		if _, err := h.CreateGroup(p, overwrite); err != nil {
			return err
		}
	}
	return nil
}

// Export copies the container into a new directory store at path.
// Archive destinations are not supported.
func (h *Hierarchy) Export(path string) (err error) {
	if err := h.check(); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return fmt.Errorf("%w: export to zip archive %s", ErrNotImplemented, path)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("%w: export target %s", ErrAlreadyExists, path)
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	d, err := store.NewDirectory(path)
	if err != nil {
		return err
	}
	dst, err := store.Open(d, store.ModeCreate, store.WithLogger(h.log))
	if err != nil {
		_ = d.Close()
		return storeErr(err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := store.Copy(h.file.Root(), dst.Root()); err != nil {
		return storeErr(err)
	}
	h.log.Info().Str("destination", path).Msg("container exported")
	return nil
}

// ExportTo copies the container into cs, which must be empty. The store
// is left open for the caller.
func (h *Hierarchy) ExportTo(cs store.ChunkedStore) error {
	if err := h.check(); err != nil {
		return err
	}
	dst, err := store.Open(cs, store.ModeCreate, store.WithLogger(h.log))
	if err != nil {
		return storeErr(err)
	}
	if err := store.Copy(h.file.Root(), dst.Root()); err != nil {
		return storeErr(err)
	}
	h.log.Info().Msg("container exported to store")
	return nil
}

// Close releases the store. Calling it again has no effect.
func (h *Hierarchy) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.file.Close()
}
