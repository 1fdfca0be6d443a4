package rkns

import (
	"bytes"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-rkns/internal/edf"
	"github.com/robert-malhotra/go-rkns/store"
)

// startDateLayout formats admin_info.startdate.
const startDateLayout = "2006-01-02 15:04:05"

// edfAdapter handles EDF, EDF+, BDF and BDF+ files. Annotation signals
// are not sampled data and are left out of the normalized zone.
type edfAdapter struct{}

func newEDFAdapter() (Adapter, error) {
	return edfAdapter{}, nil
}

func (edfAdapter) Decode(blob []byte) (*Source, error) {
	rec, err := edf.Read(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, err
	}

	src := &Source{}
	p := rec.Patient()
	src.Patient = PatientInfo{
		Name:        p.Name,
		Additional:  p.Additional,
		PatientCode: p.Code,
		Sex:         p.Sex,
		Birthdate:   p.Birthdate,
	}
	info := rec.RecordingInfo()
	src.Admin = AdminInfo{
		AdminCode:           info.AdminCode,
		Technician:          info.Technician,
		Equipment:           info.Equipment,
		RecordingAdditional: info.Additional,
	}
	start, err := rec.StartDateTime()
	if err != nil {
		return nil, err
	}
	src.Admin.StartDate = start.Format(startDateLayout)

	dt := store.Int16
	if rec.Variant == edf.VariantBDF {
		dt = store.Int32
	}
	for i, s := range rec.Signals {
		if s.IsAnnotation() {
			continue
		}
		rate := rec.SampleRate(i)
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
			return nil, fmt.Errorf("signal %q: sample rate %g Hz", s.Label, rate)
		}
		src.Channels = append(src.Channels, SourceChannel{
			Label:        s.Label,
			Dimension:    s.PhysicalDimension,
			Transducer:   s.Transducer,
			Prefiltering: s.Prefiltering,
			SampleRate:   rate,
			PhysicalMin:  s.PhysicalMin,
			PhysicalMax:  s.PhysicalMax,
			DigitalMin:   float64(s.DigitalMin),
			DigitalMax:   float64(s.DigitalMax),
			Samples:      rec.Samples[i],
			DType:        dt,
		})
	}
	return src, nil
}

func (edfAdapter) Reencode(blob []byte) ([]byte, error) {
	rec, err := edf.Read(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := edf.Write(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
