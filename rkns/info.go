package rkns

// PatientInfo is the patient_info attribute of the normalized zone.
type PatientInfo struct {
	Name        string `json:"name"`
	Additional  string `json:"additional"`
	PatientCode string `json:"patientcode"`
	Sex         string `json:"sex"`
	Birthdate   string `json:"birthdate"`
}

// AdminInfo is the admin_info attribute of the normalized zone.
type AdminInfo struct {
	AdminCode           string  `json:"admincode"`
	Technician          string  `json:"technician"`
	Equipment           string  `json:"equipment"`
	RecordingAdditional string  `json:"recording_additional"`
	StartDate           string  `json:"startdate"` // 2006-01-02 15:04:05
	RecordingDuration   float64 `json:"recording_duration_in_s"`
}

// ChannelAttrs is one entry of the channel_info attribute.
type ChannelAttrs struct {
	Dimension      string `json:"dimension"`
	Transducer     string `json:"transducer"`
	Prefilter      string `json:"prefilter"`
	FrequencyGroup string `json:"frequency_group"`
}

// ChannelInfo maps channel names to their attributes.
type ChannelInfo map[string]ChannelAttrs
