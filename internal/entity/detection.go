package entity

// Box is a bounding box in pixel coordinates, origin top-left.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Detection is a single object returned by the model. Score is the model
// confidence in [0,1].
type Detection struct {
	Box   Box     `json:"box"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
