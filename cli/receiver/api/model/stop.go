package model

// Stop is one row of the externally managed stops table, keyed by its
// header. Latitude and longitude are coerced to numbers, the
// "approximate" marker to a bool; other columns pass through as text.
type Stop map[string]interface{}
