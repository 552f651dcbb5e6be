// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

package models

// Geolocation represents resolved geographic data for an IP address.
// A nil *Geolocation means the IP is private, reserved, or unresolvable.
type Geolocation struct {
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_name,omitempty"`
	City        string  `json:"city,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
