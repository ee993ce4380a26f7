package assistant

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Settings returns the settings.json content granting the assistant the
// allow list and access to workspace.
func Settings(workspace string, allow []string) ([]byte, error) {
	if allow == nil {
		allow = []string{}
	}
	doc := []byte(`{}`)
	var err error
	for _, set := range []struct {
		path  string
		value interface{}
	}{
		{"permissions.additionalDirectories", []string{workspace}},
		{"permissions.allow", allow},
		{"permissions.deny", []string{}},
	} {
		doc, err = sjson.SetBytes(doc, set.path, set.value)
		if err != nil {
			return nil, fmt.Errorf("failed to build settings: %w", err)
		}
	}
	return pretty.Pretty(doc), nil
}

// TrustProject marks workspace as an accepted project in .claude.json
// content, so no trust dialog is shown on start.
func TrustProject(claudeJSON []byte, workspace string) ([]byte, error) {
	if len(strings.TrimSpace(string(claudeJSON))) == 0 {
		claudeJSON = []byte(`{}`)
	}
	if !gjson.ValidBytes(claudeJSON) {
		return nil, fmt.Errorf("invalid JSON")
	}
	path := "projects." + escapeKey(workspace) + ".hasTrustDialogAccepted"
	out, err := sjson.SetBytes(claudeJSON, path, true)
	if err != nil {
		return nil, fmt.Errorf("failed to mark %s trusted: %w", workspace, err)
	}
	return out, nil
}

// NativeInstall rewrites every "installMethod" value in a JSON document
// to "native". Content that is not valid JSON is returned unchanged.
func NativeInstall(data []byte) []byte {
	if !gjson.ValidBytes(data) {
		return data
	}
	var paths []string
	collectKey(gjson.ParseBytes(data), "", "installMethod", &paths)
	for _, p := range paths {
		if out, err := sjson.SetBytes(data, p, "native"); err == nil {
			data = out
		}
	}
	return data
}

// collectKey appends the sjson path of every member named key under r.
func collectKey(r gjson.Result, prefix, key string, paths *[]string) {
	if !r.IsObject() && !r.IsArray() {
		return
	}
	index := 0
	r.ForEach(func(k, v gjson.Result) bool {
		var segment string
		if r.IsArray() {
			segment = fmt.Sprint(index)
			index++
		} else {
			segment = escapeKey(k.String())
		}
		p := segment
		if prefix != "" {
			p = prefix + "." + segment
		}
		if r.IsObject() && k.String() == key {
			*paths = append(*paths, p)
			return true
		}
		collectKey(v, p, key, paths)
		return true
	})
}

// escapeKey quotes the characters gjson and sjson treat as path syntax.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
