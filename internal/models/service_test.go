package models

import "testing"

func TestBestStatus(t *testing.T) {
	tests := []struct {
		name string
		a, b VerificationStatus
		want VerificationStatus
	}{
		{"verified beats pending", StatusVerified, StatusPending, StatusVerified},
		{"pending beats unverified", StatusUnverified, StatusPending, StatusPending},
		{"unverified beats rejected", StatusRejected, StatusUnverified, StatusUnverified},
		{"tie keeps first", StatusPending, StatusPending, StatusPending},
		{"unknown loses to rejected", "garbage", StatusRejected, StatusRejected},
		{"both unknown keeps first", "garbage", "junk", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestStatus(tt.a, tt.b); got != tt.want {
				t.Errorf("BestStatus(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		name    string
		records []ServiceRecord
		wantErr bool
	}{
		{
			name:    "empty batch ok",
			records: nil,
		},
		{
			name: "valid records",
			records: []ServiceRecord{
				{ID: "a", Name: "Service A"},
				{ID: "b", Name: "Service B"},
			},
		},
		{
			name:    "missing id",
			records: []ServiceRecord{{Name: "No ID"}},
			wantErr: true,
		},
		{
			name:    "missing name",
			records: []ServiceRecord{{ID: "a"}},
			wantErr: true,
		},
		{
			name: "duplicate id",
			records: []ServiceRecord{
				{ID: "a", Name: "First"},
				{ID: "a", Name: "Second"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatch("batch", tt.records)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBatch() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContactAccessors(t *testing.T) {
	svc := ServiceRecord{
		ID:   "a",
		Name: "Service",
		Contacts: []ContactRecord{
			{Phones: []PhoneNumber{{Number: ""}}},
			{Email: "intake@example.org", Phones: []PhoneNumber{{Number: "07 3000 1234"}}},
		},
	}

	if got := svc.ContactEmail(); got != "intake@example.org" {
		t.Errorf("ContactEmail() = %q, want %q", got, "intake@example.org")
	}
	if got := svc.ContactPhone(); got != "07 3000 1234" {
		t.Errorf("ContactPhone() = %q, want %q", got, "07 3000 1234")
	}

	svc.Email = "front@example.org"
	if got := svc.ContactEmail(); got != "front@example.org" {
		t.Errorf("ContactEmail() with record email = %q, want %q", got, "front@example.org")
	}

	empty := ServiceRecord{ID: "b", Name: "Empty"}
	if got := empty.ContactEmail(); got != "" {
		t.Errorf("ContactEmail() on empty record = %q, want empty", got)
	}
	if got := empty.ContactPhone(); got != "" {
		t.Errorf("ContactPhone() on empty record = %q, want empty", got)
	}
	if got := empty.TaxID(); got != "" {
		t.Errorf("TaxID() on empty record = %q, want empty", got)
	}
}

func TestRunStatsSnapshot(t *testing.T) {
	stats := RunStats{TotalChecked: 200, DuplicatesFound: 4, ProcessingTimeMs: 500}
	snap := stats.Snapshot(4, 1)

	if snap.DuplicatePairs != 4 || snap.MergedServices != 1 {
		t.Errorf("Snapshot counts = %d/%d, want 4/1", snap.DuplicatePairs, snap.MergedServices)
	}
	if snap.AverageCheckMs != 2.5 {
		t.Errorf("AverageCheckMs = %v, want 2.5", snap.AverageCheckMs)
	}

	zero := RunStats{}.Snapshot(0, 0)
	if zero.AverageCheckMs != 0 {
		t.Errorf("AverageCheckMs on empty run = %v, want 0", zero.AverageCheckMs)
	}
}
