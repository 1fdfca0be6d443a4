package rkns

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-rkns/store"
)

var (
	requiredRootAttrs   = []string{attrHeader, attrCreationTime}
	requiredRootGroups  = []string{rawName, rknsName, historyName, popisName}
	requiredSignalAttrs = []string{attrFilename, attrFormat, attrModTime, attrMD5}
)

// CheckValidity verifies the container layout below root. The first
// problem found is returned as a typed error wrapping ErrValidation.
func CheckValidity(root *store.Group) error {
	for _, a := range requiredRootAttrs {
		if !root.HasAttr(a) {
			return &MissingAttributeError{Path: root.Path(), Attr: a}
		}
	}
	for _, name := range requiredRootGroups {
		if err := requireKind(root, name, store.KindGroup); err != nil {
			return err
		}
	}

	raw, err := root.OpenGroup(rawName)
	if err != nil {
		return storeErr(err)
	}
	if err := checkRaw(raw); err != nil {
		return err
	}

	zone, err := root.OpenGroup(rknsName)
	if err != nil {
		return storeErr(err)
	}
	return checkNormalized(zone)
}

func requireKind(g *store.Group, name string, want store.Kind) error {
	kind, err := g.Kind(name)
	if err != nil {
		return storeErr(err)
	}
	switch kind {
	case want:
		return nil
	case store.KindNone:
		return &MissingChildError{Path: g.Path(), Child: name}
	}
	return &WrongNodeKindError{Path: store.JoinPath(g.Path(), name), Want: want, Got: kind}
}

func checkRaw(raw *store.Group) error {
	if raw.Name() != rawName {
		return &InvalidGroupNameError{Path: raw.Path(), Name: raw.Name()}
	}
	if err := requireKind(raw, rawSignalName, store.KindArray); err != nil {
		return err
	}
	sig, err := raw.OpenArray(rawSignalName)
	if err != nil {
		return storeErr(err)
	}
	for _, a := range requiredSignalAttrs {
		if !sig.HasAttr(a) {
			return &MissingAttributeError{Path: sig.Path(), Attr: a}
		}
	}
	return nil
}

// checkNormalized verifies the frequency groups and, when channel_info is
// present, that every channel sits in the group it names.
func checkNormalized(zone *store.Group) error {
	if err := requireKind(zone, signalsName, store.KindGroup); err != nil {
		return err
	}
	signals, err := zone.OpenGroup(signalsName)
	if err != nil {
		return storeErr(err)
	}
	names, err := signals.Members()
	if err != nil {
		return storeErr(err)
	}

	placement := map[string]string{}
	for _, name := range names {
		p := store.JoinPath(signals.Path(), name)
		if !strings.HasPrefix(name, frequencyGroupPrefix) {
			return &InvalidGroupNameError{Path: p, Name: name}
		}
		if err := requireKind(signals, name, store.KindGroup); err != nil {
			return err
		}
		fg, err := signals.OpenGroup(name)
		if err != nil {
			return storeErr(err)
		}
		channels, err := checkFrequencyGroup(fg)
		if err != nil {
			return err
		}
		for _, ch := range channels {
			if prev, dup := placement[ch]; dup {
				return &InconsistentGroupError{Path: p, Reason: fmt.Sprintf("channel %q also listed in %s", ch, prev)}
			}
			placement[ch] = name
		}
	}

	if !zone.HasAttr(attrChannelInfo) {
		return nil
	}
	var info ChannelInfo
	if err := zone.AttrInto(attrChannelInfo, &info); err != nil {
		return &ParseError{Path: store.JoinAttrPath(zone.Path(), attrChannelInfo), Err: err}
	}
	for ch, attrs := range info {
		group, ok := placement[ch]
		if !ok {
			return &InconsistentGroupError{Path: zone.Path(), Reason: fmt.Sprintf("channel %q is in no frequency group", ch)}
		}
		if group != attrs.FrequencyGroup {
			return &InconsistentGroupError{
				Path:   zone.Path(),
				Reason: fmt.Sprintf("channel %q is in %s but channel_info says %s", ch, group, attrs.FrequencyGroup),
			}
		}
	}
	return nil
}

// checkFrequencyGroup verifies one group and returns its channel list.
func checkFrequencyGroup(fg *store.Group) ([]string, error) {
	for _, name := range []string{signalArrayName, minMaxArrayName} {
		if err := requireKind(fg, name, store.KindArray); err != nil {
			return nil, err
		}
	}
	if !fg.HasAttr(attrChannels) {
		return nil, &MissingAttributeError{Path: fg.Path(), Attr: attrChannels}
	}
	var channels []string
	if err := fg.AttrInto(attrChannels, &channels); err != nil {
		return nil, &ParseError{Path: store.JoinAttrPath(fg.Path(), attrChannels), Err: err}
	}

	sig, err := fg.OpenArray(signalArrayName)
	if err != nil {
		return nil, storeErr(err)
	}
	mm, err := fg.OpenArray(minMaxArrayName)
	if err != nil {
		return nil, storeErr(err)
	}
	s, m := sig.Shape(), mm.Shape()
	if len(s) != 2 || len(m) != 2 || m[0] != 4 {
		return nil, &InconsistentGroupError{Path: fg.Path(), Reason: fmt.Sprintf("signal shape %v, minmax shape %v", s, m)}
	}
	if s[1] != m[1] || int(s[1]) != len(channels) {
		return nil, &InconsistentGroupError{
			Path:   fg.Path(),
			Reason: fmt.Sprintf("%d signal columns, %d minmax columns, %d channels", s[1], m[1], len(channels)),
		}
	}
	return channels, nil
}
