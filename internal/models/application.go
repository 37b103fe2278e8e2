package models

import "strings"

// JobApplicationInput is the candidate-submitted form payload. FullName,
// Nickname and Phone are required; everything else is optional.
type JobApplicationInput struct {
	FullName         string `json:"fullName" form:"fullName"`
	Nickname         string `json:"nickname" form:"nickname"`
	Phone            string `json:"phone" form:"phone"`
	LineID           string `json:"lineId,omitempty" form:"lineId"`
	Facebook         string `json:"facebook,omitempty" form:"facebook"`
	ResumeURL        string `json:"resumeUrl,omitempty" form:"resumeUrl"`
	TranscriptURL    string `json:"transcriptUrl,omitempty" form:"transcriptUrl"`
	SelfIntroduction string `json:"selfIntroduction,omitempty" form:"selfIntroduction"`
}

// MissingRequired returns the form field names whose required values are
// empty. Presence is the only check performed here; format validation is the
// browser's and the upstream API's concern.
func (in *JobApplicationInput) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(in.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(in.Nickname) == "" {
		missing = append(missing, "nickname")
	}
	if strings.TrimSpace(in.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// JobApplicationRecord is returned by the upstream API on create. EditToken
// is the sole credential for later viewing or editing the application and is
// treated as a secret: never logged, only stored in the candidate's cookie
// and share link.
type JobApplicationRecord struct {
	ID        string `json:"id"`
	EditToken string `json:"editToken"`
	Message   string `json:"message"`
}

// JobApplicationData is the hydrated record resolved from an edit token,
// used to prefill the edit form.
type JobApplicationData struct {
	FullName         string `json:"fullName"`
	Nickname         string `json:"nickname"`
	Phone            string `json:"phone"`
	LineID           string `json:"lineId,omitempty"`
	Facebook         string `json:"facebook,omitempty"`
	ResumeURL        string `json:"resumeUrl,omitempty"`
	TranscriptURL    string `json:"transcriptUrl,omitempty"`
	SelfIntroduction string `json:"selfIntroduction,omitempty"`
	JobID            string `json:"jobId"`
	JobTitle         string `json:"jobTitle"`
	CompanyName      string `json:"companyName"`
}

// Input converts a hydrated record back into form-input shape.
func (d *JobApplicationData) Input() JobApplicationInput {
	return JobApplicationInput{
		FullName:         d.FullName,
		Nickname:         d.Nickname,
		Phone:            d.Phone,
		LineID:           d.LineID,
		Facebook:         d.Facebook,
		ResumeURL:        d.ResumeURL,
		TranscriptURL:    d.TranscriptURL,
		SelfIntroduction: d.SelfIntroduction,
	}
}

// FileUploadResponse is the upstream reply to a file upload.
type FileUploadResponse struct {
	URL string `json:"url"`
}
