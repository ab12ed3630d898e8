package domain

// Diagnosis is the structured output parsed from the generative model's reply.
// Confidence is a percentage in the range 0-100.
type Diagnosis struct {
	Disease     string  `json:"disease"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
	Symptoms    string  `json:"symptoms"`
	Treatment   string  `json:"treatment"`
	Prevention  string  `json:"prevention"`
}

// DiseaseStat is one group-and-count bucket of an owner's records.
type DiseaseStat struct {
	Disease string `json:"disease"`
	Count   int64  `json:"count"`
}

// DiseaseStatsSummary aggregates an owner's records by disease label,
// sorted by count descending.
type DiseaseStatsSummary struct {
	Stats       []DiseaseStat `json:"stats"`
	TotalImages int64         `json:"totalImages"`
}
