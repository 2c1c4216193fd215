package dexcom

import (
	"encoding/json"
	"fmt"
	"time"
)

// The vendor API has shipped three envelope shapes for list responses over
// its lifetime: a bare JSON array, {"egvs": [...]} and {"records": [...]}
// (devices use {"devices": [...]}). All shape sniffing happens here so the
// sync engine only ever sees canonical types.

// unwrapList extracts the raw item list from any of the known envelopes.
func unwrapList(body []byte, envelopeKeys ...string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unrecognized response shape: %w", err)
	}
	for _, key := range envelopeKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("invalid %q list: %w", key, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("response has none of the expected keys %v", envelopeKeys)
}

type rawEGV struct {
	RecordID      string          `json:"recordId"`
	SystemTime    string          `json:"systemTime"`
	DisplayTime   string          `json:"displayTime"`
	TransmitterID string          `json:"transmitterId"`
	Value         json.RawMessage `json:"value"`
	Unit          string          `json:"unit"`
	Trend         string          `json:"trend"`
	TrendRate     *float64        `json:"trendRate"`
	DisplayDevice string          `json:"displayDevice"`
	Generation    string          `json:"transmitterGeneration"`
}

// extractValue handles both wire forms of an EGV value: a flat number, or
// an object keyed by unit such as {"mg/dL": 120}.
func extractValue(raw json.RawMessage, declaredUnit string) (float64, string, error) {
	if len(raw) == 0 {
		return 0, "", fmt.Errorf("missing value")
	}

	var flat float64
	if err := json.Unmarshal(raw, &flat); err == nil {
		unit := declaredUnit
		if unit == "" {
			unit = "mg/dL"
		}
		return flat, unit, nil
	}

	var byUnit map[string]float64
	if err := json.Unmarshal(raw, &byUnit); err != nil {
		return 0, "", fmt.Errorf("unrecognized value shape: %s", string(raw))
	}
	for _, unit := range []string{"mg/dL", "mmol/L"} {
		if v, ok := byUnit[unit]; ok {
			return v, unit, nil
		}
	}
	for unit, v := range byUnit {
		return v, unit, nil
	}
	return 0, "", fmt.Errorf("empty value object")
}

func parseEGV(raw json.RawMessage) (EGV, error) {
	var r rawEGV
	if err := json.Unmarshal(raw, &r); err != nil {
		return EGV{}, fmt.Errorf("invalid egv record: %w", err)
	}
	if r.RecordID == "" {
		return EGV{}, fmt.Errorf("egv record missing recordId")
	}

	value, unit, err := extractValue(r.Value, r.Unit)
	if err != nil {
		return EGV{}, fmt.Errorf("egv %s: %w", r.RecordID, err)
	}

	systemTime, err := parseVendorTime(r.SystemTime)
	if err != nil {
		return EGV{}, fmt.Errorf("egv %s: bad systemTime: %w", r.RecordID, err)
	}
	displayTime, err := parseVendorTime(r.DisplayTime)
	if err != nil {
		displayTime = systemTime
	}

	meta := map[string]interface{}{}
	if r.DisplayDevice != "" {
		meta["displayDevice"] = r.DisplayDevice
	}
	if r.Generation != "" {
		meta["transmitterGeneration"] = r.Generation
	}

	return EGV{
		RecordID:       r.RecordID,
		TransmitterID:  r.TransmitterID,
		Value:          value,
		Unit:           unit,
		Trend:          r.Trend,
		TrendRate:      r.TrendRate,
		SystemTime:     systemTime,
		DisplayTime:    displayTime,
		DeviceMetadata: meta,
	}, nil
}

// NormalizeEGVs converts a raw EGV list response into canonical records.
// Individual malformed records are skipped and reported; one bad record
// must not discard the batch.
func NormalizeEGVs(body []byte) ([]EGV, []error) {
	items, err := unwrapList(body, "egvs", "records")
	if err != nil {
		return nil, []error{err}
	}

	egvs := make([]EGV, 0, len(items))
	var errs []error
	for _, item := range items {
		egv, err := parseEGV(item)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		egvs = append(egvs, egv)
	}
	return egvs, errs
}

type rawDevice struct {
	TransmitterID         string `json:"transmitterId"`
	TransmitterGeneration string `json:"transmitterGeneration"`
	DisplayDevice         string `json:"displayDevice"`
	LastUploadDate        string `json:"lastUploadDate"`
}

// NormalizeDevices converts a raw device list response into canonical records.
func NormalizeDevices(body []byte) ([]Device, error) {
	items, err := unwrapList(body, "devices", "records")
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(items))
	for _, item := range items {
		var r rawDevice
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, fmt.Errorf("invalid device record: %w", err)
		}
		d := Device{
			TransmitterID:         r.TransmitterID,
			TransmitterGeneration: r.TransmitterGeneration,
			DisplayDevice:         r.DisplayDevice,
		}
		if t, err := parseVendorTime(r.LastUploadDate); err == nil {
			d.LastUploadDate = &t
		}
		devices = append(devices, d)
	}
	return devices, nil
}

type rawSession struct {
	SerialNumber  string `json:"serialNumber"`
	TransmitterID string `json:"transmitterId"`
	Model         string `json:"transmitterGeneration"`
	Start         struct {
		SystemTime string `json:"systemTime"`
	} `json:"start"`
	End struct {
		SystemTime string `json:"systemTime"`
	} `json:"end"`
}

// NormalizeSessions converts a raw data-range response into sensor sessions.
func NormalizeSessions(body []byte) ([]SensorSession, error) {
	items, err := unwrapList(body, "sessions", "records")
	if err != nil {
		return nil, err
	}

	sessions := make([]SensorSession, 0, len(items))
	for _, item := range items {
		var r rawSession
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, fmt.Errorf("invalid session record: %w", err)
		}
		s := SensorSession{
			SerialNumber: r.SerialNumber,
			ModelName:    r.Model,
		}
		if s.SerialNumber == "" {
			s.SerialNumber = r.TransmitterID
		}
		if t, err := parseVendorTime(r.Start.SystemTime); err == nil {
			s.StartedAt = &t
		}
		if t, err := parseVendorTime(r.End.SystemTime); err == nil {
			s.EndedAt = &t
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

var vendorTimeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseVendorTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range vendorTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
