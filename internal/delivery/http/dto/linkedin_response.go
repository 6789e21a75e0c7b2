package dto

import "job-portal/internal/usecase"

type ImportResultResponse struct {
	LinkedInID string       `json:"linkedinId"`
	Success    bool         `json:"success"`
	Duplicate  bool         `json:"duplicate"`
	Message    string       `json:"message"`
	Job        *JobResponse `json:"job,omitempty"`
}

func NewImportResultResponse(r usecase.ImportResult) ImportResultResponse {
	out := ImportResultResponse{
		LinkedInID: r.ExternalID,
		Success:    r.Success,
		Duplicate:  r.Duplicate,
		Message:    r.Message,
	}
	if r.Job != nil {
		j := NewJobResponse(*r.Job)
		out.Job = &j
	}
	return out
}

type BulkImportResponse struct {
	Total      int                    `json:"total"`
	Successful int                    `json:"successful"`
	Failed     int                    `json:"failed"`
	Results    []ImportResultResponse `json:"results"`
}

func NewBulkImportResponse(r usecase.BulkImportResult) BulkImportResponse {
	out := BulkImportResponse{
		Total:      r.Total,
		Successful: r.Successful,
		Failed:     r.Failed,
		Results:    make([]ImportResultResponse, 0, len(r.Results)),
	}
	for _, it := range r.Results {
		out.Results = append(out.Results, NewImportResultResponse(it))
	}
	return out
}

type CompanyCountResponse struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

type LinkedInStatsResponse struct {
	TotalJobs    int                    `json:"totalLinkedInJobs"`
	ActiveJobs   int                    `json:"activeLinkedInJobs"`
	Applications int                    `json:"linkedInApplications"`
	TopCompanies []CompanyCountResponse `json:"topCompanies"`
}

func NewLinkedInStatsResponse(s usecase.LinkedInStats) LinkedInStatsResponse {
	out := LinkedInStatsResponse{
		TotalJobs:    s.TotalJobs,
		ActiveJobs:   s.ActiveJobs,
		Applications: s.Applications,
		TopCompanies: make([]CompanyCountResponse, 0, len(s.TopCompanies)),
	}
	for _, c := range s.TopCompanies {
		out.TopCompanies = append(out.TopCompanies, CompanyCountResponse{Company: c.Company, Count: c.Count})
	}
	return out
}

type PostToCandidatesResponse struct {
	CandidatesNotified int         `json:"candidatesNotified"`
	Job                JobResponse `json:"job"`
}
