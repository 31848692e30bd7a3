package main

import (
	"testing"

	"storepos/backend/internal/config"
)

func TestValidateSecurityConfigRejectsShortSecret(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "short"})
	if err == nil {
		t.Fatalf("expected short secret to be rejected")
	}
}

func TestValidateSecurityConfigAcceptsStrongSecret(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef", AccessTokenTTLMinutes: 60})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}

func TestValidateSecurityConfigAllowsAuthOff(t *testing.T) {
	if err := validateSecurityConfig(config.Config{}); err != nil {
		t.Fatalf("expected empty secret to disable auth, got %v", err)
	}
}

func TestValidateSecurityConfigRejectsNegativeTTL(t *testing.T) {
	if err := validateSecurityConfig(config.Config{AccessTokenTTLMinutes: -1}); err == nil {
		t.Fatalf("expected negative ttl to be rejected")
	}
}
