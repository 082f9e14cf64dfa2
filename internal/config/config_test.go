package config

import (
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("server defaults: %+v", cfg.Server)
	}
	if cfg.Provider.APIBase != DefaultAPIBase {
		t.Fatalf("api base %q", cfg.Provider.APIBase)
	}
	if cfg.Provider.TimeoutSeconds != 20 {
		t.Fatalf("timeout %d", cfg.Provider.TimeoutSeconds)
	}
	if cfg.Lookup.Resolver != "1.1.1.1:53" {
		t.Fatalf("resolver %q", cfg.Lookup.Resolver)
	}
	if cfg.Auth.Enabled {
		t.Fatal("auth gate must default to off")
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 9000
provider:
  api_base: https://api.internal.example/v4
  timeout_seconds: 5
lookup:
  resolver: 9.9.9.9:53
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port %d", cfg.Server.Port)
	}
	if cfg.Provider.APIBase != "https://api.internal.example/v4" || cfg.Provider.TimeoutSeconds != 5 {
		t.Fatalf("provider %+v", cfg.Provider)
	}
	if cfg.Lookup.Resolver != "9.9.9.9:53" {
		t.Fatalf("resolver %q", cfg.Lookup.Resolver)
	}
}

func TestLDAPRequiresAuthGate(t *testing.T) {
	_, err := Parse([]byte(`
ldap:
  enabled: true
  url: ldaps://dc.example.com:636
`))
	if err == nil || !strings.Contains(err.Error(), "auth.enabled") {
		t.Fatalf("expected auth.enabled error, got %v", err)
	}
}

func TestLDAPValidation(t *testing.T) {
	base := `
auth:
  enabled: true
ldap:
  enabled: true
`
	cases := []struct {
		name string
		add  string
		want string
	}{
		{"missing url", "", "ldap.url"},
		{"missing bind", "  url: ldaps://dc.example.com:636\n", "bind_dn"},
		{
			"missing group mapping",
			"  url: ldaps://dc.example.com:636\n" +
				"  bind_dn: cn=svc,dc=example,dc=com\n" +
				"  bind_password: secret\n" +
				"  base_dn: dc=example,dc=com\n",
			"group_mapping",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(base + tc.add))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLDAPFilterDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
auth:
  enabled: true
ldap:
  enabled: true
  url: ldaps://dc.example.com:636
  bind_dn: cn=svc,dc=example,dc=com
  bind_password: secret
  base_dn: dc=example,dc=com
  group_mapping:
    admin: cn=dns-admins,ou=groups,dc=example,dc=com
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LDAP.UserFilter != "(sAMAccountName=%s)" || cfg.LDAP.UsernameAttr != "sAMAccountName" {
		t.Fatalf("ldap defaults: %+v", cfg.LDAP)
	}
}

func TestCleartext(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.Enabled = true
	cfg.LDAP.Enabled = true
	cfg.LDAP.URL = "ldap://dc.example.com:389"
	if !cfg.Cleartext() {
		t.Fatal("plain ldap without StartTLS is cleartext")
	}
	cfg.LDAP.StartTLS = true
	if cfg.Cleartext() {
		t.Fatal("StartTLS is not cleartext")
	}
	cfg.LDAP.StartTLS = false
	cfg.LDAP.URL = "ldaps://dc.example.com:636"
	if cfg.Cleartext() {
		t.Fatal("ldaps is not cleartext")
	}
}
