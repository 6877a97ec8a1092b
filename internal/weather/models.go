package weather

// Coordinates is a resolved geographic position. It is derived per request
// from a city name and never persisted.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HourlySeries holds a provider's raw hourly forecast as parallel arrays
// aligned by index. Times are the provider's local-time strings; UTCOffset is
// the location's offset from UTC in seconds as reported by the provider.
type HourlySeries struct {
	Times       []string
	Temperature []float64
	Humidity    []float64
	WeatherCode []float64
	WindSpeed   []float64
	UTCOffset   int
}

// CurrentConditions is the "right now" slice of a summary. All four fields
// are always present in the JSON output; missing source data yields zeros.
type CurrentConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	WeatherCode int     `json:"weather_code"`
}

// HourlyBlock carries up to 24 hourly values per variable, keyed by the
// provider's variable names.
type HourlyBlock struct {
	Temperature []float64 `json:"temperature_2m"`
	Humidity    []float64 `json:"relative_humidity_2m"`
	WeatherCode []float64 `json:"weather_code"`
	WindSpeed   []float64 `json:"wind_speed_10m"`
}

// Summary is the condensed response payload for a city lookup.
type Summary struct {
	City    string            `json:"city"`
	Current CurrentConditions `json:"current"`
	Hourly  HourlyBlock       `json:"hourly"`
}
