// Package rkns implements the RKNS container: a hierarchical store for
// multi-channel physiological recordings. A container keeps a byte-exact
// copy of the source file in its raw zone and a normalized zone in which
// channels are grouped by sampling rate.
package rkns

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-rkns/store"
)

// State is the population stage of a container.
type State int

const (
	StateEmpty State = iota
	StateRawPopulated
	StateNormalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateRawPopulated:
		return "RAW_POPULATED"
	case StateNormalized:
		return "NORMALIZED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// RawInfo describes the source file held in the raw zone.
type RawInfo struct {
	Filename         string
	Format           Format
	ModificationTime float64
	MD5              string
	Size             uint64
}

// Container is an open RKNS container. It is not safe for concurrent use.
type Container struct {
	h         *Hierarchy
	log       zerolog.Logger
	validate  bool
	arrayOpts []store.ArrayOption
	chunkRows int
	closed    bool

	patient  *PatientInfo
	admin    *AdminInfo
	channels ChannelInfo
}

func newContainer(h *Hierarchy, o *options) *Container {
	return &Container{
		h:         h,
		log:       o.logger,
		validate:  o.validate,
		arrayOpts: o.arrayOpts,
		chunkRows: o.chunkRows,
	}
}

// FromFile builds a container from path. An RKNS directory is opened in
// place. Any other file is detected, copied into the raw zone of a new
// container and, unless WithoutPopulate is given, normalized.
func FromFile(path string, opts ...Option) (*Container, error) {
	o := applyOptions(opts)

	format, err := DetectFormat(path)
	if err != nil {
		return nil, fmt.Errorf("detecting format of %s: %w", path, err)
	}
	switch format {
	case FormatUnknown:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	case FormatRKNS:
		d, err := store.NewDirectory(path)
		if err != nil {
			return nil, err
		}
		return Open(d, opts...)
	}
	if _, err := ResolveAdapter(format); err != nil {
		return nil, err
	}

	cs, err := o.openTarget()
	if err != nil {
		return nil, err
	}
	h, err := CreateHierarchy(cs, o.overwrite, o.logger)
	if err != nil {
		_ = cs.Close()
		return nil, err
	}
	c := newContainer(h, o)

	if err := c.PopulateRawFromFile(path, format); err != nil {
		c.closeQuietly()
		return nil, err
	}
	if o.populate {
		if err := c.PopulateRKNSFromRaw(false, o.validate); err != nil {
			c.closeQuietly()
			return nil, err
		}
	}
	return c, nil
}

func (o *options) openTarget() (store.ChunkedStore, error) {
	if o.targetStore != nil {
		return o.targetStore, nil
	}
	if o.targetPath == "" {
		return store.NewMemory(), nil
	}
	if _, err := os.Stat(o.targetPath); err == nil && !o.overwrite {
		return nil, fmt.Errorf("%w: target %s", ErrAlreadyExists, o.targetPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	d, err := store.NewDirectory(o.targetPath)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Open opens an existing container on cs for reading and writing.
func Open(cs store.ChunkedStore, opts ...Option) (*Container, error) {
	o := applyOptions(opts)
	h, err := OpenHierarchy(cs, store.ModeReadWrite, o.logger)
	if err != nil {
		return nil, err
	}
	return newContainer(h, o), nil
}

func (c *Container) check() error {
	if c.closed {
		return ErrClosed
	}
	return nil
}

// Close releases the container's store. Calling it again has no effect.
func (c *Container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.h.Close()
}

func (c *Container) closeQuietly() {
	if err := c.Close(); err != nil {
		c.log.Error().Err(err).Msg("closing container")
	}
}

// Hierarchy returns the node layout manager.
func (c *Container) Hierarchy() (*Hierarchy, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.h, nil
}

// State reports how far the container has been populated.
func (c *Container) State() (State, error) {
	if err := c.check(); err != nil {
		return StateEmpty, err
	}
	raw, err := c.h.Raw()
	if err != nil {
		return StateEmpty, err
	}
	kind, err := raw.Kind(rawSignalName)
	if err != nil {
		return StateEmpty, storeErr(err)
	}
	if kind == store.KindNone {
		return StateEmpty, nil
	}
	signals, err := c.h.Signals()
	if err != nil {
		return StateEmpty, err
	}
	n, err := signals.NumObjects()
	if err != nil {
		return StateEmpty, storeErr(err)
	}
	if n == 0 {
		return StateRawPopulated, nil
	}
	return StateNormalized, nil
}

func (c *Container) arrayOptions(extra ...store.ArrayOption) []store.ArrayOption {
	opts := make([]store.ArrayOption, 0, len(c.arrayOpts)+len(extra))
	opts = append(opts, c.arrayOpts...)
	return append(opts, extra...)
}

// PopulateRawFromFile stores the bytes of path in the raw zone along with
// its name, format, modification time and md5.
func (c *Container) PopulateRawFromFile(path string, format Format) error {
	if err := c.check(); err != nil {
		return err
	}
	raw, err := c.h.rawWritable()
	if err != nil {
		return err
	}
	kind, err := raw.Kind(rawSignalName)
	if err != nil {
		return storeErr(err)
	}
	if kind != store.KindNone {
		return fmt.Errorf("%w: %s/%s", ErrAlreadyExists, raw.Path(), rawSignalName)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sum := md5.Sum(blob)
	digest := hex.EncodeToString(sum[:])

	c.log.Debug().
		Str("filename", filepath.Base(path)).
		Str("format", format.String()).
		Int("bytes", len(blob)).
		Msg("ingesting raw file")

	_, err = raw.CreateArray(rawSignalName, blob, c.arrayOptions(
		store.WithDType(store.Uint8),
		store.WithAttribute(attrFilename, filepath.Base(path)),
		store.WithAttribute(attrFormat, int(format)),
		store.WithAttribute(attrModTime, float64(info.ModTime().UnixNano())/1e9),
		store.WithAttribute(attrMD5, digest),
	)...)
	if err != nil {
		return storeErr(err)
	}
	if err := raw.SetAttr(attrFormat, int(format)); err != nil {
		return storeErr(err)
	}

	c.log.Debug().Str("md5", digest).Msg("raw zone populated")
	return nil
}

// RawInfo returns the provenance attributes of the raw zone.
func (c *Container) RawInfo() (*RawInfo, error) {
	sig, err := c.rawSignal()
	if err != nil {
		return nil, err
	}
	info := &RawInfo{Size: sig.NumElements()}
	for name, dest := range map[string]interface{}{
		attrFilename: &info.Filename,
		attrFormat:   &info.Format,
		attrModTime:  &info.ModificationTime,
		attrMD5:      &info.MD5,
	} {
		if err := sig.AttrInto(name, dest); err != nil {
			return nil, storeErr(err)
		}
	}
	return info, nil
}

func (c *Container) rawSignal() (*store.Array, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	raw, err := c.h.Raw()
	if err != nil {
		return nil, err
	}
	sig, err := raw.OpenArray(rawSignalName)
	if err != nil {
		return nil, fmt.Errorf("raw zone is empty: %w", storeErr(err))
	}
	return sig, nil
}

// ReconstructOriginalFile writes the raw zone back to path byte for byte.
// The stored md5 is checked first.
func (c *Container) ReconstructOriginalFile(path string) error {
	sig, err := c.rawSignal()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	}
	blob, err := sig.ReadUint8()
	if err != nil {
		return storeErr(err)
	}
	var want string
	if err := sig.AttrInto(attrMD5, &want); err != nil {
		return storeErr(err)
	}
	sum := md5.Sum(blob)
	if got := hex.EncodeToString(sum[:]); got != want {
		return fmt.Errorf("%w: %s: md5 %s, stored %s", ErrValidation, sig.Path(), got, want)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return err
	}
	if _, err := f.Write(blob); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// PopulateRKNSFromRaw decodes the raw zone and writes the normalized zone.
// An already populated zone is refused unless overwrite is set. With
// validate set, channel durations are checked before writing and the
// layout after; a failure leaves the normalized zone empty.
func (c *Container) PopulateRKNSFromRaw(overwrite, validate bool) error {
	sig, err := c.rawSignal()
	if err != nil {
		return err
	}
	var format Format
	if err := sig.AttrInto(attrFormat, &format); err != nil {
		return &ParseError{Path: store.JoinAttrPath(sig.Path(), attrFormat), Err: err}
	}
	adapter, err := ResolveAdapter(format)
	if err != nil {
		return err
	}

	populated, err := c.normalizedPopulated()
	if err != nil {
		return err
	}
	if populated {
		if !overwrite {
			return fmt.Errorf("%w: normalized zone is populated", ErrAlreadyExists)
		}
		if err := c.clearNormalized(); err != nil {
			return err
		}
	}

	blob, err := sig.ReadUint8()
	if err != nil {
		return storeErr(err)
	}
	var filename string
	_ = sig.AttrInto(attrFilename, &filename)
	src, err := adapter.Decode(blob)
	if err != nil {
		return &ParseError{Path: filename, Err: err}
	}
	ext, err := Extract(src, validate)
	if err != nil {
		return err
	}

	if err := c.writeNormalized(ext); err != nil {
		c.discardNormalized()
		return err
	}
	if validate {
		if err := CheckValidity(c.h.file.Root()); err != nil {
			c.discardNormalized()
			return err
		}
	}
	c.resetCache()
	return nil
}

// ResetRKNS rebuilds the normalized zone from the raw zone.
func (c *Container) ResetRKNS() error {
	return c.PopulateRKNSFromRaw(true, c.validate)
}

// ResetRaw replaces the raw zone with the contents of path and empties the
// normalized zone, leaving the container in StateRawPopulated.
func (c *Container) ResetRaw(path string) error {
	if err := c.check(); err != nil {
		return err
	}
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	if format == FormatUnknown || format == FormatRKNS {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if _, err := ResolveAdapter(format); err != nil {
		return err
	}
	if _, err := c.h.CreateGroup(rawName, true); err != nil {
		return err
	}
	if err := c.clearNormalized(); err != nil {
		return err
	}
	return c.PopulateRawFromFile(path, format)
}

func (c *Container) normalizedPopulated() (bool, error) {
	zone, err := c.h.RKNS()
	if err != nil {
		return false, err
	}
	names, err := zone.AttrNames()
	if err != nil {
		return false, storeErr(err)
	}
	if len(names) > 0 {
		return true, nil
	}
	signals, err := c.h.Signals()
	if err != nil {
		return false, err
	}
	n, err := signals.NumObjects()
	if err != nil {
		return false, storeErr(err)
	}
	return n > 0, nil
}

// clearNormalized recreates an empty normalized zone.
func (c *Container) clearNormalized() error {
	if _, err := c.h.CreateGroup(rknsName, true); err != nil {
		return err
	}
	c.resetCache()
	return c.h.CreateGroups([]string{
		rknsName + "/" + signalsName,
		rknsName + "/" + annotationsName,
	}, false)
}

func (c *Container) discardNormalized() {
	if err := c.clearNormalized(); err != nil {
		c.log.Error().Err(err).Msg("discarding partial normalized zone")
	}
}

func (c *Container) writeNormalized(ext *Extraction) error {
	zone, err := c.h.RKNS()
	if err != nil {
		return err
	}
	signals, err := c.h.Signals()
	if err != nil {
		return err
	}

	for _, g := range ext.Groups {
		fg, err := signals.CreateGroup(g.Tag, false)
		if err != nil {
			return storeErr(err)
		}
		rows, cols := uint64(g.Rows), uint64(len(g.Channels))
		chunkRows := uint64(c.chunkRows)
		if rows < chunkRows {
			chunkRows = rows
		}
		if chunkRows == 0 {
			chunkRows = 1
		}

		if _, err := fg.CreateArray(signalArrayName, g.Signal, c.arrayOptions(
			store.WithShape(rows, cols),
			store.WithChunks(chunkRows, cols),
			store.WithDType(g.DType),
		)...); err != nil {
			return storeErr(err)
		}
		if _, err := fg.CreateArray(minMaxArrayName, g.MinMax, c.arrayOptions(
			store.WithShape(4, cols),
		)...); err != nil {
			return storeErr(err)
		}
		if err := fg.SetAttrs(map[string]interface{}{
			attrChannels:   g.Channels,
			attrSampleRate: g.SampleRate,
		}); err != nil {
			return storeErr(err)
		}
		c.log.Debug().
			Str("group", g.Tag).
			Int("channels", len(g.Channels)).
			Int("samples", g.Rows).
			Msg("frequency group written")
	}

	err = zone.SetAttrs(map[string]interface{}{
		attrPatientInfo: ext.Patient,
		attrAdminInfo:   ext.Admin,
		attrChannelInfo: ext.ChannelInfo,
	})
	return storeErr(err)
}

func (c *Container) resetCache() {
	c.patient = nil
	c.admin = nil
	c.channels = nil
}

// PatientInfo returns the patient_info attribute.
func (c *Container) PatientInfo() (PatientInfo, error) {
	if err := c.check(); err != nil {
		return PatientInfo{}, err
	}
	if c.patient == nil {
		var p PatientInfo
		if err := c.zoneAttr(attrPatientInfo, &p); err != nil {
			return PatientInfo{}, err
		}
		c.patient = &p
	}
	return *c.patient, nil
}

// AdminInfo returns the admin_info attribute.
func (c *Container) AdminInfo() (AdminInfo, error) {
	if err := c.check(); err != nil {
		return AdminInfo{}, err
	}
	if c.admin == nil {
		var a AdminInfo
		if err := c.zoneAttr(attrAdminInfo, &a); err != nil {
			return AdminInfo{}, err
		}
		c.admin = &a
	}
	return *c.admin, nil
}

// ChannelInfo returns the channel_info attribute.
func (c *Container) ChannelInfo() (ChannelInfo, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if c.channels == nil {
		var ci ChannelInfo
		if err := c.zoneAttr(attrChannelInfo, &ci); err != nil {
			return nil, err
		}
		c.channels = ci
	}
	return c.channels, nil
}

func (c *Container) zoneAttr(name string, dest interface{}) error {
	zone, err := c.h.RKNS()
	if err != nil {
		return err
	}
	return storeErr(zone.AttrInto(name, dest))
}

// FrequencyGroupNames returns the frequency group names ordered by rate.
func (c *Container) FrequencyGroupNames() ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	signals, err := c.h.Signals()
	if err != nil {
		return nil, err
	}
	members, err := signals.Members()
	if err != nil {
		return nil, storeErr(err)
	}
	var names []string
	for _, m := range members {
		if _, ok := parseGroupRate(m); ok {
			names = append(names, m)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, _ := parseGroupRate(names[i])
		rj, _ := parseGroupRate(names[j])
		return ri < rj
	})
	return names, nil
}

// CheckValidity verifies the container layout.
func (c *Container) CheckValidity() error {
	if err := c.check(); err != nil {
		return err
	}
	return CheckValidity(c.h.file.Root())
}

// IsEqualTo reports whether both containers hold the same tree, values
// and attributes.
func (c *Container) IsEqualTo(other *Container) (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	if err := other.check(); err != nil {
		return false, err
	}
	ok, err := DeepCompare(c.h.file.Root(), other.h.file.Root(), FullCompare)
	if errors.Is(err, ErrStructuralMismatch) {
		c.log.Debug().Err(err).Msg("containers differ")
		return false, nil
	}
	return ok, err
}

// Tree renders the container hierarchy.
func (c *Container) Tree(maxDepth int, showAttrs bool) (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}
	return RenderTree(c.h.file.Root(), maxDepth, showAttrs)
}

// Export copies the container into a new directory at path.
func (c *Container) Export(path string) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.h.Export(path)
}

// ExportTo copies the container into the empty store cs.
func (c *Container) ExportTo(cs store.ChunkedStore) error {
	if err := c.check(); err != nil {
		return err
	}
	return c.h.ExportTo(cs)
}
