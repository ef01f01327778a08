package cli

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/cli/config"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"github.com/safemon-lab/pallas/pkg/repository"
	"github.com/safemon-lab/pallas/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// cmdCompute runs the aggregate-rollup-score pipeline offline: incidents and
// locations come from JSON files and the rolled-up risk map goes to stdout.
func cmdCompute() *cli.Command {
	var (
		scoringCfg    config.Scoring
		incidentsPath string
		locationsPath string
	)

	flags := joinFlags(
		scoringCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "incidents",
				Usage:       "Path to a JSON file with an array of incidents",
				Required:    true,
				Sources:     cli.EnvVars("PALLAS_INCIDENTS"),
				Destination: &incidentsPath,
			},
			&cli.StringFlag{
				Name:        "locations",
				Usage:       "Path to a JSON file with an array of locations (optional)",
				Sources:     cli.EnvVars("PALLAS_LOCATIONS"),
				Destination: &locationsPath,
			},
		},
	)

	return &cli.Command{
		Name:  "compute",
		Usage: "Compute the rolled-up risk map from JSON snapshots",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var incidents []*model.Incident
			if err := readJSONFile(incidentsPath, &incidents); err != nil {
				return err
			}

			// Same backfill as the HTTP ingest path: snapshots may omit IDs
			for _, incident := range incidents {
				if incident != nil && incident.ID == "" {
					incident.ID = types.NewIncidentID()
				}
			}

			var locations []*model.Location
			if locationsPath != "" {
				if err := readJSONFile(locationsPath, &locations); err != nil {
					return err
				}
			}

			riskOpts, err := scoringCfg.Configure()
			if err != nil {
				return err
			}

			// The offline pipeline reuses the service path against a
			// throwaway in-memory repository
			repo := repository.NewMemory()
			defer repo.Close()

			ingestUC := usecase.NewIngest(repo, usecase.WithIngestClock(time.Now))
			if _, err := ingestUC.IngestIncidents(ctx, incidents); err != nil {
				return err
			}
			if len(locations) > 0 {
				if _, err := ingestUC.PutLocations(ctx, locations); err != nil {
					return err
				}
			}

			riskUC := usecase.NewRisk(repo, riskOpts...)
			rolled, err := riskUC.RolledUp(ctx)
			if err != nil {
				return err
			}

			body := make(map[string]*model.LocationRiskData, len(rolled))
			for id, data := range rolled {
				body[id.String()] = data
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(body); err != nil {
				return goerr.Wrap(err, "failed to encode risk map")
			}

			return nil
		},
	}
}

// readJSONFile decodes a JSON file into out
func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read input file", goerr.V("path", path))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return goerr.Wrap(err, "failed to parse JSON input", goerr.V("path", path))
	}
	return nil
}
