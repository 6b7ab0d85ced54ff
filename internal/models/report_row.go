package models

import "strconv"

// ReportRow is one URL of the report, serialized into the report template.
//
// The report consumer expects a mixed typing: count and time_sum are JSON numbers,
// every other statistic is a preformatted string.
//
// Example JSON:
//
//	{
//	  "count": 2767,
//	  "time_avg": "62.995",
//	  "time_max": "9843.569",
//	  "time_sum": 174306.352,
//	  "url": "/api/v2/internal/html5/phantomjs/queue/",
//	  "time_med": "60.073",
//	  "time_perc": "9.04",
//	  "count_perc": "0.11"
//	}
type ReportRow struct {
	Count     int64       `json:"count"`
	TimeAvg   string      `json:"time_avg"`
	TimeMax   string      `json:"time_max"`
	TimeSum   FixedPoint3 `json:"time_sum"`
	URL       string      `json:"url"`
	TimeMed   string      `json:"time_med"`
	TimePerc  string      `json:"time_perc"`
	CountPerc string      `json:"count_perc"`
}

// FixedPoint3 keeps the exact value for ranking and is serialized as a JSON
// number rounded to 3 decimal places.
type FixedPoint3 float64

func (f FixedPoint3) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(f), 'f', 3, 64), nil
}
