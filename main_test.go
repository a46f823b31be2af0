package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestApp_Commands(t *testing.T) {
	app := newApp()
	want := []string{"coldstart", "run", "expand", "runs", "links"}
	for _, name := range want {
		if app.Command(name) == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestApp_Coldstart(t *testing.T) {
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf
	if err := app.Run([]string{"citylink", "coldstart"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# citylink Quick Start") {
		t.Errorf("coldstart output does not start with the quick start header: %q", buf.String())
	}
}
