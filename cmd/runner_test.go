package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/herald/internal/models"
	"github.com/desertthunder/herald/internal/services"
	"github.com/desertthunder/herald/internal/shared"
	tu "github.com/desertthunder/herald/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.config.Polling.Interval().Minutes() != 90 {
				t.Errorf("expected 90 minute default interval, got %v", runner.config.Polling.Interval())
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil notifier uses noop", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.notifier == nil {
				t.Error("expected a notifier to be set")
			}
		})

		t.Run("provided catalogs are used as-is", func(t *testing.T) {
			deezer := &tu.MockCatalog{
				ServiceName: "Deezer",
				Releases: map[string][]models.Release{
					"42": {{SourceID: "d1", Title: "KiCk i", Date: "2020-06-25"}},
				},
			}
			runner := NewRunner(RunnerOpts{Deezer: deezer, ITunes: &tu.MockCatalog{ServiceName: "iTunes"}})

			releases, err := runner.deezer.ArtistReleases(context.Background(), "42", 0)
			if err != nil {
				t.Fatalf("ArtistReleases failed: %v", err)
			}
			if len(releases) != 1 || releases[0].Title != "KiCk i" {
				t.Errorf("unexpected releases: %+v", releases)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		data := map[string]string{"artist": "Arca"}
		if err := runner.writeJSON(data, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}

		if got := output.String(); got != `{"artist":"Arca"}`+"\n" {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("writeJSON pretty", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]string{"a": "b"}, true); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if !strings.Contains(output.String(), "\n  ") {
			t.Errorf("expected indented output, got %q", output.String())
		}
	})

	t.Run("writePlainln", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlainln("checked %d artists", 3); err != nil {
			t.Fatalf("writePlainln failed: %v", err)
		}
		if output.String() != "checked 3 artists\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("write errors propagate", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

		if err := runner.writePlainln("anything"); err == nil {
			t.Error("expected writePlainln to surface the write error")
		}
		if err := runner.writeJSON(map[string]string{"a": "b"}, false); err == nil {
			t.Error("expected writeJSON to surface the write error")
		}
	})
}

func TestRunnerCatalogOverTransport(t *testing.T) {
	body := `{"data":[{"id":100,"title":"KiCk i","release_date":"2020-06-25","record_type":"album"}],"total":1}`
	rt := tu.NewMockRoundTripper(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil)

	svc := services.NewDeezerService("https://api.deezer.com", &http.Client{Transport: rt}, 1000)
	releases, err := svc.ArtistReleases(context.Background(), "42", 0)
	if err != nil {
		t.Fatalf("ArtistReleases failed: %v", err)
	}
	if len(releases) != 1 || releases[0].Kind != models.TypeAlbum {
		t.Errorf("unexpected releases: %+v", releases)
	}
}
