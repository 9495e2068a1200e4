package models

type APPerformance struct {
	APName           string       `json:"apName"`
	TotalANP         Money        `json:"totalANP"`
	MonthlyANP       Money        `json:"monthlyANP"`
	TotalSubmissions int          `json:"totalSubmissions"`
	Issued           int          `json:"issued"`
	Pending          int          `json:"pending"`
	Declined         int          `json:"declined"`
	ConversionRate   string       `json:"conversionRate"`
	Submissions      []Submission `json:"submissions"`
}

type TeamStats struct {
	TotalTeamANP          Money  `json:"totalTeamANP"`
	TotalMonthlyANP       Money  `json:"totalMonthlyANP"`
	TotalSubmissions      int    `json:"totalSubmissions"`
	TotalIssued           int    `json:"totalIssued"`
	TotalPending          int    `json:"totalPending"`
	TotalDeclined         int    `json:"totalDeclined"`
	AverageConversionRate string `json:"averageConversionRate"`
}

type PerformanceReport struct {
	PerformanceByAP []APPerformance `json:"performanceByAP"`
	TeamStats       TeamStats       `json:"teamStats"`
}
