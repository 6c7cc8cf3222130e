// internal/form/definition_test.go
//
// Unit-tests for YAML definitions, the registry, and PostedSurface.

package form

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const contactYAML = `
id: contact
title: Contact us
messages:
  success: "Thank you for your message! We'll get back to you within 24 hours."
fields:
  - {name: firstName, label: "First Name *", type: text, required: true}
  - {name: lastName, label: "Last Name *", type: text, required: true}
  - {name: email, label: "Email Address *", type: email, required: true}
  - {name: phone, label: Phone, type: tel}
  - {name: message, label: "Message *", type: textarea, required: true}
  - name: privacy
    label: I agree to the Privacy Policy
    type: checkbox
    required: true
    error: You must agree to the Privacy Policy and Terms of Service
actions:
  - type: store
    table: contact_submission
  - type: webhook
    url: https://hooks.example.com/contact
    header.X-Token: abc
`

func TestParseFormDef(t *testing.T) {
	fd, err := ParseFormDef([]byte(contactYAML), "contact.yaml")
	if err != nil {
		t.Fatalf("ParseFormDef: %v", err)
	}
	if fd.ID != "contact" || len(fd.Fields) != 6 || len(fd.Actions) != 2 {
		t.Fatalf("unexpected definition: %+v", fd)
	}
	if fd.Actions[0].Params["table"] != "contact_submission" {
		t.Fatalf("store params = %#v", fd.Actions[0].Params)
	}
	if fd.Actions[1].Params["header.X-Token"] != "abc" {
		t.Fatalf("webhook params = %#v", fd.Actions[1].Params)
	}
	if !strings.Contains(fd.Messages.Success, "24 hours") {
		t.Fatalf("success copy = %q", fd.Messages.Success)
	}
	if fd.Label("email") != "Email Address *" {
		t.Fatalf("label = %q", fd.Label("email"))
	}
}

func TestParseFormDef_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing id":       "fields: [{name: a, label: A, type: text}]",
		"no fields":        "id: x",
		"unknown kind":     "id: x\nfields: [{name: a, label: A, type: number}]",
		"missing label":    "id: x\nfields: [{name: a, type: text}]",
		"duplicate name":   "id: x\nfields: [{name: a, label: A, type: text}, {name: a, label: B, type: email}]",
		"unknown action":   "id: x\nfields: [{name: a, label: A, type: text}]\nactions: [{type: pdf}]",
		"error on textbox": "id: x\nfields: [{name: a, label: A, type: text, error: nope}]",
		"bad yaml":         "id: [",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFormDef([]byte(src), name); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "contact.yaml"), []byte(contactYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry()
	if err := reg.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if diff := cmp.Diff([]string{"contact"}, reg.IDs()); diff != "" {
		t.Fatalf("IDs mismatch (-want +got):\n%s", diff)
	}
	if _, err := reg.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v", err)
	}
	if err := NewRegistry().LoadDir(filepath.Join(dir, "nope")); err != nil {
		t.Fatalf("missing dir should be ignored, got %v", err)
	}
}

func TestPostedSurface(t *testing.T) {
	fd, err := ParseFormDef([]byte(contactYAML), "contact.yaml")
	if err != nil {
		t.Fatal(err)
	}
	posted := url.Values{
		"firstName":  {"Ada"},
		"email":      {"ada@example.com"},
		"privacy":    {"on"},
		"csrf_token": {"t"},
	}
	s := NewPostedSurface(fd, posted)
	posted.Set("firstName", "mutated")

	fields := s.Fields()
	if len(fields) != 6 {
		t.Fatalf("got %d fields", len(fields))
	}
	want := Field{Name: "firstName", Value: "Ada", Required: true, Kind: KindText}
	if diff := cmp.Diff(want, fields[0]); diff != "" {
		t.Fatalf("firstName mismatch (-want +got):\n%s", diff)
	}
	privacy, _ := s.Field("privacy")
	if !privacy.Checked || privacy.RequiredMessage == "" {
		t.Fatalf("privacy = %+v", privacy)
	}
	if s.Label("message") != "Message *" {
		t.Fatalf("label = %q", s.Label("message"))
	}
	wantValues := map[string]string{"firstName": "Ada", "email": "ada@example.com", "privacy": "on"}
	if diff := cmp.Diff(wantValues, s.Values()); diff != "" {
		t.Fatalf("Values mismatch (-want +got):\n%s", diff)
	}

	s.Clear()
	for _, f := range s.Fields() {
		if f.Value != "" || f.Checked {
			t.Fatalf("field %s not cleared: %+v", f.Name, f)
		}
	}
}

func TestPostedSurface_UncheckedValues(t *testing.T) {
	fd := &FormDef{ID: "x", Fields: []FieldDef{{Name: "news", Label: "News", Type: KindCheckbox}}}
	for _, v := range []string{"false", "off", "0"} {
		s := NewPostedSurface(fd, url.Values{"news": {v}})
		if f, _ := s.Field("news"); f.Checked {
			t.Errorf("%q should read as unchecked", v)
		}
	}
}
