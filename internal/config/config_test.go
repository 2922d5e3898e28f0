package config

import "testing"

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default(): %v", err)
	}
	if c.Language != "zh-cn" {
		t.Fatalf("default language = %q, want zh-cn", c.Language)
	}
	if c.Type != 0 {
		t.Fatalf("default type = %d, want 0", c.Type)
	}
	if c.DNSTimeoutSeconds != 10 || c.DNSRetries != 3 {
		t.Fatalf("default DNS budget = %d/%d, want 10/3", c.DNSTimeoutSeconds, c.DNSRetries)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load("/nonexistent/path/to/config.json")
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if c.Language != "zh-cn" {
		t.Fatalf("expected default language on missing file, got %q", c.Language)
	}
}

func TestValidateRejectsBadType(t *testing.T) {
	c, _ := Default()
	c.Type = 5
	if err := c.Validate(); err == nil {
		t.Fatal("expected Validate to reject out-of-range type")
	}
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	c, _ := Default()
	c.TimeoutSeconds = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected Validate to reject zero timeout")
	}
}
