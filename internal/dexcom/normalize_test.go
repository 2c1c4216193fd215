package dexcom

import (
	"testing"
	"time"
)

func TestNormalizeEGVs_BareList(t *testing.T) {
	body := []byte(`[
		{"recordId":"a1","systemTime":"2024-03-01T10:00:00","displayTime":"2024-03-01T10:00:00","value":112,"unit":"mg/dL","trend":"flat","transmitterId":"TX1"},
		{"recordId":"a2","systemTime":"2024-03-01T10:05:00","displayTime":"2024-03-01T10:05:00","value":118,"unit":"mg/dL","trend":"singleUp","transmitterId":"TX1"}
	]`)

	egvs, errs := NormalizeEGVs(body)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(egvs) != 2 {
		t.Fatalf("expected 2 egvs, got %d", len(egvs))
	}
	if egvs[0].RecordID != "a1" || egvs[0].Value != 112 {
		t.Errorf("unexpected first egv: %+v", egvs[0])
	}
}

func TestNormalizeEGVs_EgvsEnvelope(t *testing.T) {
	body := []byte(`{"egvs":[{"recordId":"b1","systemTime":"2024-03-01T10:00:00","value":95}]}`)

	egvs, errs := NormalizeEGVs(body)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(egvs) != 1 || egvs[0].RecordID != "b1" {
		t.Fatalf("unexpected egvs: %+v", egvs)
	}
	if egvs[0].Unit != "mg/dL" {
		t.Errorf("expected default unit mg/dL, got %q", egvs[0].Unit)
	}
}

func TestNormalizeEGVs_RecordsEnvelope(t *testing.T) {
	body := []byte(`{"records":[{"recordId":"c1","systemTime":"2024-03-01T10:00:00","value":101}]}`)

	egvs, errs := NormalizeEGVs(body)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(egvs) != 1 || egvs[0].RecordID != "c1" {
		t.Fatalf("unexpected egvs: %+v", egvs)
	}
}

func TestNormalizeEGVs_NestedValueByUnit(t *testing.T) {
	body := []byte(`[{"recordId":"d1","systemTime":"2024-03-01T10:00:00","value":{"mg/dL":134}}]`)

	egvs, errs := NormalizeEGVs(body)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if egvs[0].Value != 134 || egvs[0].Unit != "mg/dL" {
		t.Errorf("expected 134 mg/dL, got %v %s", egvs[0].Value, egvs[0].Unit)
	}
}

func TestNormalizeEGVs_NestedValueMmol(t *testing.T) {
	body := []byte(`[{"recordId":"d2","systemTime":"2024-03-01T10:00:00","value":{"mmol/L":6.7}}]`)

	egvs, errs := NormalizeEGVs(body)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if egvs[0].Value != 6.7 || egvs[0].Unit != "mmol/L" {
		t.Errorf("expected 6.7 mmol/L, got %v %s", egvs[0].Value, egvs[0].Unit)
	}
}

func TestNormalizeEGVs_BadRecordDoesNotDiscardBatch(t *testing.T) {
	body := []byte(`[
		{"recordId":"e1","systemTime":"2024-03-01T10:00:00","value":100},
		{"systemTime":"2024-03-01T10:05:00","value":105},
		{"recordId":"e3","systemTime":"2024-03-01T10:10:00","value":110}
	]`)

	egvs, errs := NormalizeEGVs(body)
	if len(egvs) != 2 {
		t.Fatalf("expected 2 valid egvs, got %d", len(egvs))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for the record without recordId, got %d", len(errs))
	}
}

func TestNormalizeEGVs_UnrecognizedShape(t *testing.T) {
	_, errs := NormalizeEGVs([]byte(`{"unexpected":"shape"}`))
	if len(errs) != 1 {
		t.Fatalf("expected shape error, got %v", errs)
	}
}

func TestNormalizeDevices_Envelopes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bare", `[{"transmitterId":"TX9","transmitterGeneration":"g6","displayDevice":"iOS"}]`},
		{"devices", `{"devices":[{"transmitterId":"TX9","transmitterGeneration":"g6","displayDevice":"iOS"}]}`},
		{"records", `{"records":[{"transmitterId":"TX9","transmitterGeneration":"g6","displayDevice":"iOS"}]}`},
	}
	for _, tc := range cases {
		devices, err := NormalizeDevices([]byte(tc.body))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if len(devices) != 1 || devices[0].TransmitterID != "TX9" {
			t.Errorf("%s: unexpected devices: %+v", tc.name, devices)
		}
	}
}

func TestNormalizeSessions_SerialFallsBackToTransmitter(t *testing.T) {
	body := []byte(`{"sessions":[{"transmitterId":"TX5","transmitterGeneration":"g7","start":{"systemTime":"2024-02-20T08:00:00"}}]}`)

	sessions, err := NormalizeSessions(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].SerialNumber != "TX5" {
		t.Errorf("expected serial fallback to transmitterId, got %q", sessions[0].SerialNumber)
	}
	if sessions[0].StartedAt == nil {
		t.Error("expected parsed start time")
	}
}

func TestParseVendorTime(t *testing.T) {
	got, err := parseVendorTime("2024-03-01T10:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := parseVendorTime("not-a-time"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
	if _, err := parseVendorTime(""); err == nil {
		t.Error("expected error for empty timestamp")
	}
}
