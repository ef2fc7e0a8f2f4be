package dto

type NutritionResponseDto struct {
	CNNumber    string             `json:"cnNumber"`
	ProductName string             `json:"productName"`
	ServingSize string             `json:"servingSize,omitempty"`
	Nutrition   map[string]float64 `json:"nutrition"`
}

type ServingDto struct {
	Sequence int     `json:"sequence"`
	Amount   float64 `json:"amount"`
	Measure  string  `json:"measure"`
	Grams    float64 `json:"grams"`
	Unit     string  `json:"unit"`
}

type ServingsResponseDto struct {
	CNNumber      string       `json:"cnNumber"`
	ProductName   string       `json:"productName"`
	Category      string       `json:"category,omitempty"`
	BaseServing   string       `json:"baseServing,omitempty"`
	ServingsCount int          `json:"servingsCount"`
	Servings      []ServingDto `json:"servings"`
}
