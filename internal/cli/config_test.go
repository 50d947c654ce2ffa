package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		t.Fatalf("resolving %s: %v", name, err)
	}

	return abs
}

const testConfigFile = `host: https://file.example.com
headers:
  - Authorization=Bearer file
query:
  - units=metric
timeout: 5s
rps: 10
burst: 3
`

func TestLoadConfig(t *testing.T) {
	testCases := map[string]struct {
		file string
		env  map[string]string
		exp  Config
	}{
		"defaults": {
			exp: Config{Timeout: defaultTimeout, Burst: 1},
		},
		"file": {
			file: testConfigFile,
			exp: Config{
				Host:    "https://file.example.com",
				Headers: []string{"Authorization=Bearer file"},
				Query:   []string{"units=metric"},
				Timeout: 5 * time.Second,
				RPS:     10,
				Burst:   3,
			},
		},
		"envOverridesFile": {
			file: testConfigFile,
			env: map[string]string{
				"DISPATCH_HOST":       "https://env.example.com",
				"DISPATCH_TIMEOUT":    "1m",
				"DISPATCH_REQUEST_ID": "true",
			},
			exp: Config{
				Host:      "https://env.example.com",
				Headers:   []string{"Authorization=Bearer file"},
				Query:     []string{"units=metric"},
				Timeout:   time.Minute,
				RequestID: true,
				RPS:       10,
				Burst:     3,
			},
		},
		"envLists": {
			env: map[string]string{
				"DISPATCH_HEADERS":    "A=1,B=2",
				"DISPATCH_QUERY":      "appid=key",
				"DISPATCH_USER_AGENT": "env/1.0",
			},
			exp: Config{
				Headers:   []string{"A=1", "B=2"},
				Query:     []string{"appid=key"},
				Timeout:   defaultTimeout,
				UserAgent: "env/1.0",
				Burst:     1,
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			if tc.file != "" {
				writeFile(t, "dispatchctl.yaml", tc.file)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			got, err := loadConfig(viper.New(), "", "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("unexpected config (-exp +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	// godotenv writes straight to the process environment.
	t.Cleanup(func() { _ = os.Unsetenv("DISPATCH_HOST") })

	writeFile(t, ".env", "DISPATCH_HOST=https://dotenv.example.com\n")

	got, err := loadConfig(viper.New(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Host != "https://dotenv.example.com" {
		t.Errorf("exp host from .env, got %q", got.Host)
	}
}

func TestLoadConfig_ExplicitFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("configFile", func(t *testing.T) {
		path := writeFile(t, "custom.yaml", "host: https://custom.example.com\n")

		got, err := loadConfig(viper.New(), path, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Host != "https://custom.example.com" {
			t.Errorf("exp host from custom file, got %q", got.Host)
		}
	})

	t.Run("missingConfigFile", func(t *testing.T) {
		if _, err := loadConfig(viper.New(), "missing.yaml", ""); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("missingEnvFile", func(t *testing.T) {
		if _, err := loadConfig(viper.New(), "", "missing.env"); err == nil {
			t.Fatal("expected error for missing env file")
		}
	})
}

func TestParsePairs(t *testing.T) {
	testCases := map[string]struct {
		pairs  []string
		exp    map[string]string
		expErr bool
	}{
		"empty":       {pairs: nil, exp: map[string]string{}},
		"simple":      {pairs: []string{"a=1", "b=2"}, exp: map[string]string{"a": "1", "b": "2"}},
		"valueWithEq": {pairs: []string{"token=a=b"}, exp: map[string]string{"token": "a=b"}},
		"trimmed":     {pairs: []string{" a = 1 "}, exp: map[string]string{"a": "1"}},
		"emptyValue":  {pairs: []string{"a="}, exp: map[string]string{"a": ""}},
		"lastWins":    {pairs: []string{"a=1", "a=2"}, exp: map[string]string{"a": "2"}},
		"missingEq":   {pairs: []string{"a"}, expErr: true},
		"missingKey":  {pairs: []string{"=1"}, expErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := parsePairs(tc.pairs)
			if tc.expErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("unexpected pairs (-exp +got):\n%s", diff)
			}
		})
	}
}
