package help

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/citylink/models"
)

func TestColdstartYAML_ExampleConfigLoads(t *testing.T) {
	var doc struct {
		Commands      map[string]string `yaml:"commands"`
		ExampleConfig string            `yaml:"example_config"`
	}
	if err := yaml.Unmarshal([]byte(ColdstartYAML), &doc); err != nil {
		t.Fatalf("quick start is not valid YAML: %v", err)
	}
	if len(doc.Commands) == 0 {
		t.Error("quick start lists no commands")
	}

	cfg := models.DefaultConfig()
	if err := yaml.Unmarshal([]byte(doc.ExampleConfig), cfg); err != nil {
		t.Fatalf("example config does not decode: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config is invalid for run: %v", err)
	}
	if err := cfg.ValidateExpansion(); err != nil {
		t.Errorf("example config is invalid for expand: %v", err)
	}
	if len(cfg.Categories) != 3 || cfg.WorkerCount != 8 {
		t.Errorf("example config = %+v", cfg)
	}
}
