package auth

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"cfpanel/internal/config"
)

type LDAPResult struct {
	Username string
	Email    string
	Groups   []string
}

type LDAPClient struct {
	cfg config.LDAPConfig
}

func NewLDAPClient(cfg config.LDAPConfig) *LDAPClient {
	return &LDAPClient{cfg: cfg}
}

// Authenticate binds with the service account to locate the user, then
// binds as the user to verify the password.
func (lc *LDAPClient) Authenticate(username, password string) (*LDAPResult, error) {
	conn, err := lc.connect()
	if err != nil {
		return nil, fmt.Errorf("ldap connect: %w", err)
	}
	defer conn.Close()

	if err := conn.Bind(lc.cfg.BindDN, lc.cfg.BindPassword); err != nil {
		return nil, fmt.Errorf("ldap service bind: %w", err)
	}

	filter := fmt.Sprintf(lc.cfg.UserFilter, ldap.EscapeFilter(username))
	searchReq := ldap.NewSearchRequest(
		lc.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases, 0, 30, false,
		filter,
		[]string{"dn", lc.cfg.UsernameAttr, lc.cfg.EmailAttr, "memberOf"},
		nil,
	)
	result, err := conn.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("ldap search: %w", err)
	}
	if len(result.Entries) != 1 {
		return nil, fmt.Errorf("user not found or ambiguous: %d results", len(result.Entries))
	}

	entry := result.Entries[0]
	if err := conn.Bind(entry.DN, password); err != nil {
		return nil, fmt.Errorf("ldap user bind: %w", err)
	}

	groups := entry.GetAttributeValues("memberOf")
	if len(groups) == 0 {
		groups = lc.searchGroups(conn, entry)
	}

	return &LDAPResult{
		Username: entry.GetAttributeValue(lc.cfg.UsernameAttr),
		Email:    entry.GetAttributeValue(lc.cfg.EmailAttr),
		Groups:   groups,
	}, nil
}

// searchGroups covers directories that don't expose memberOf. The filter
// template substitutes %s with the user DN and %u with the login attribute.
func (lc *LDAPClient) searchGroups(conn *ldap.Conn, entry *ldap.Entry) []string {
	filterTmpl := lc.cfg.GroupFilter
	if filterTmpl == "" {
		filterTmpl = "(|(member=%s)(uniqueMember=%s))"
	}
	filter := strings.ReplaceAll(filterTmpl, "%s", ldap.EscapeFilter(entry.DN))
	filter = strings.ReplaceAll(filter, "%u", ldap.EscapeFilter(entry.GetAttributeValue(lc.cfg.UsernameAttr)))

	groupSearch := ldap.NewSearchRequest(
		lc.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		[]string{"dn"},
		nil,
	)
	var groups []string
	if result, err := conn.Search(groupSearch); err == nil {
		for _, ge := range result.Entries {
			groups = append(groups, ge.DN)
		}
	}
	return groups
}

// ResolveRole maps directory groups onto panel roles via group_mapping.
// Highest privilege wins; ("", false) means the user is in no mapped group.
func (lc *LDAPClient) ResolveRole(groups []string) (string, bool) {
	for _, role := range []string{"admin", "operator"} {
		mapped, ok := lc.cfg.GroupMapping[role]
		if !ok {
			continue
		}
		for _, g := range groups {
			if strings.EqualFold(g, mapped) {
				return role, true
			}
		}
	}
	return "", false
}

func (lc *LDAPClient) connect() (*ldap.Conn, error) {
	tlsCfg := &tls.Config{InsecureSkipVerify: lc.cfg.SkipVerify}

	if strings.HasPrefix(lc.cfg.URL, "ldaps://") {
		return ldap.DialURL(lc.cfg.URL, ldap.DialWithTLSConfig(tlsCfg))
	}
	conn, err := ldap.DialURL(lc.cfg.URL)
	if err != nil {
		return nil, err
	}
	if lc.cfg.StartTLS {
		if err := conn.StartTLS(tlsCfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("starttls: %w", err)
		}
	}
	return conn, nil
}
