package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
	TypeHTTP   = "http"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// PublisherConfig is one sink entry of the publishers file. Only the block
// matching Type is read.
type PublisherConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SQS     *SQSPublisherConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSPublisherConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubPublisherConfig `json:"pubsub" yaml:"pubsub"`
	HTTP    *HTTPPublisherConfig   `json:"http" yaml:"http"`
}

// SQSPublisherConfig holds AWS SQS specific settings.
type SQSPublisherConfig struct {
	QueueURL  string `json:"uri" yaml:"uri"`
	AWSConfig `yaml:",inline"`
}

// SNSPublisherConfig holds AWS SNS specific settings.
type SNSPublisherConfig struct {
	TopicARN  string `json:"topic_arn" yaml:"topic_arn"`
	AWSConfig `yaml:",inline"`
}

// PubSubPublisherConfig holds Google Cloud Pub/Sub settings.
type PubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig holds webhook settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// ConfigRegistry is the validated content of a publishers file.
type ConfigRegistry struct {
	publishers []PublisherConfig
}

// LoadRegistry loads publisher entries from a YAML or JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var file struct {
		Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(raw, &file)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(raw, &file)
	default:
		return nil, fmt.Errorf("publishers file extension %q not supported (expected YAML or JSON)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode publishers file: %w", err)
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	seen := make(map[string]struct{}, len(file.Publishers))
	for i := range file.Publishers {
		cfg := normalize(file.Publishers[i])
		if err := validatePublisherConfig(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		file.Publishers[i] = cfg
	}

	return &ConfigRegistry{publishers: file.Publishers}, nil
}

// Enabled returns the entries not switched off with `enabled: false`.
func (r *ConfigRegistry) Enabled() []PublisherConfig {
	if r == nil {
		return nil
	}
	out := make([]PublisherConfig, 0, len(r.publishers))
	for _, cfg := range r.publishers {
		if cfg.Enabled == nil || *cfg.Enabled {
			out = append(out, cfg)
		}
	}
	return out
}

// normalize trims identifiers and fills HTTP defaults. Blocks for other
// types are left untouched since they are never read.
func normalize(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.Type == TypeHTTP && cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				headers[k] = v
			}
		}
		c.Headers = headers
		cfg.HTTP = &c
	}
	return cfg
}

// validatePublisherConfig checks the fields the sink of cfg.Type needs.
func validatePublisherConfig(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}

	var required [][2]string
	switch cfg.Type {
	case TypeHTTP:
		if cfg.HTTP == nil {
			return fmt.Errorf("http block required for publisher %q", cfg.ID)
		}
		required = [][2]string{{"http.url", cfg.HTTP.URL}}
	case TypeSQS:
		if cfg.SQS == nil {
			return fmt.Errorf("sqs block required for publisher %q", cfg.ID)
		}
		required = [][2]string{{"sqs.uri", cfg.SQS.QueueURL}, {"sqs.region", cfg.SQS.Region}}
	case TypeSNS:
		if cfg.SNS == nil {
			return fmt.Errorf("sns block required for publisher %q", cfg.ID)
		}
		required = [][2]string{{"sns.topic_arn", cfg.SNS.TopicARN}, {"sns.region", cfg.SNS.Region}}
	case TypePubSub:
		if cfg.PubSub == nil {
			return fmt.Errorf("pubsub block required for publisher %q", cfg.ID)
		}
		required = [][2]string{{"pubsub.project_id", cfg.PubSub.ProjectID}, {"pubsub.topic", cfg.PubSub.Topic}}
	default:
		return fmt.Errorf("publisher %q has unsupported type %q", cfg.ID, cfg.Type)
	}

	for _, field := range required {
		if strings.TrimSpace(field[1]) == "" {
			return fmt.Errorf("%s is required for publisher %q", field[0], cfg.ID)
		}
	}
	return nil
}
