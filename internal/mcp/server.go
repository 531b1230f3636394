// Package mcp exposes the Monte Carlo simulator over the Model Context
// Protocol so agent tooling can run batches and read reports without the CLI.
package mcp

import (
	"context"
	"fmt"
	"sync"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"fmvalue/internal/logging"
	"fmvalue/internal/mc"
	"fmvalue/internal/scenario"
	"fmvalue/internal/sim"
)

// Server wraps the MCP SDK server and holds the most recent batch report.
type Server struct {
	MCPServer *sdkmcp.Server

	mu     sync.Mutex
	report *Report
}

// Report is the aggregate of one paired run, kept for get_report.
type Report struct {
	Scenario      string        `json:"scenario"`
	Trials        int           `json:"trials"`
	Seed0         uint64        `json:"seed0"`
	ShareMode     string        `json:"share_mode"`
	BaselineLCOE  *mc.Quantiles `json:"baseline_lcoe"`
	FMLCOE        *mc.Quantiles `json:"fm_lcoe"`
	BaselineCapex *mc.Quantiles `json:"baseline_capex"`
	BaseYear50    int           `json:"baseline_year_lcoe50,omitempty"`
	FMYear50      int           `json:"fm_year_lcoe50,omitempty"`
	ChecksError   string        `json:"checks_error,omitempty"`
}

// NewServer creates an MCP server with the simulation tools registered.
func NewServer() *Server {
	s := &Server{}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "fmvalue", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_simulation",
		Description: "Run a paired baseline/intervention Monte Carlo batch for a scenario and return the summary report.",
	}, s.handleRunSimulation)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_report",
		Description: "Return the report of the most recent run_simulation call.",
	}, s.handleGetReport)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_scenarios",
		Description: "List the names of the built-in scenario configs.",
	}, s.handleListScenarios)
}

// --- Tool input/output types ---

type runSimulationInput struct {
	Scenario  string `json:"scenario,omitempty" jsonschema:"built-in scenario name (default: default)"`
	Path      string `json:"path,omitempty" jsonschema:"path to a scenario YAML file; overrides scenario"`
	Trials    int    `json:"trials,omitempty" jsonschema:"number of trials per arm (default 200)"`
	Seed0     uint64 `json:"seed0,omitempty" jsonschema:"seed of the first trial (default 1)"`
	Parallel  int    `json:"parallel,omitempty" jsonschema:"worker count (default 4)"`
	ShareMode string `json:"share_mode,omitempty" jsonschema:"sharing mechanism, k or b (default k)"`
	Check     bool   `json:"check,omitempty" jsonschema:"run acceptance checks against the anchors"`
}

type listScenariosOutput struct {
	Scenarios []string `json:"scenarios"`
}

type getReportInput struct{}

// --- Tool handlers ---

func (s *Server) handleRunSimulation(ctx context.Context, _ *sdkmcp.CallToolRequest, input runSimulationInput) (*sdkmcp.CallToolResult, *Report, error) {
	logger := logging.New("mcp")

	name := input.Scenario
	if name == "" {
		name = "default"
	}
	var (
		cfg *scenario.Config
		err error
	)
	if input.Path != "" {
		name = input.Path
		cfg, err = scenario.LoadPath(input.Path)
	} else {
		cfg, err = scenario.Load(name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load scenario: %w", err)
	}

	bc := mc.BatchConfig{
		Trials:    input.Trials,
		Seed0:     input.Seed0,
		Parallel:  input.Parallel,
		ShareMode: sim.ShareMode(input.ShareMode),
	}
	if bc.Trials <= 0 {
		bc.Trials = 200
	}
	if bc.Seed0 == 0 {
		bc.Seed0 = 1
	}
	if bc.Parallel <= 0 {
		bc.Parallel = 4
	}
	if bc.ShareMode == "" {
		bc.ShareMode = sim.ShareModeK
	}

	logger.Info("run_simulation", "scenario", name, "trials", bc.Trials, "share_mode", string(bc.ShareMode))

	base, fm, err := mc.RunPaired(ctx, cfg, bc)
	if err != nil {
		return nil, nil, fmt.Errorf("run paired batch: %w", err)
	}

	report, err := buildReport(name, bc, base, fm, input.Check)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	return nil, report, nil
}

func (s *Server) handleGetReport(_ context.Context, _ *sdkmcp.CallToolRequest, _ getReportInput) (*sdkmcp.CallToolResult, *Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil, nil, fmt.Errorf("no report yet: call run_simulation first")
	}
	return nil, s.report, nil
}

func (s *Server) handleListScenarios(_ context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, listScenariosOutput, error) {
	return nil, listScenariosOutput{Scenarios: scenario.List()}, nil
}

func buildReport(name string, bc mc.BatchConfig, base, fm *mc.Batch, check bool) (*Report, error) {
	baseLCOE, err := base.Quantiles(mc.MetricLCOE)
	if err != nil {
		return nil, err
	}
	fmLCOE, err := fm.Quantiles(mc.MetricLCOE)
	if err != nil {
		return nil, err
	}
	baseCapex, err := base.Quantiles(mc.MetricCapex)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Scenario:      name,
		Trials:        bc.Trials,
		Seed0:         bc.Seed0,
		ShareMode:     string(bc.ShareMode),
		BaselineLCOE:  baseLCOE,
		FMLCOE:        fmLCOE,
		BaselineCapex: baseCapex,
	}
	if y, ok, err := base.YearWhen(mc.MetricLCOE, 50.0); err == nil && ok {
		report.BaseYear50 = y
	}
	if y, ok, err := fm.YearWhen(mc.MetricLCOE, 50.0); err == nil && ok {
		report.FMYear50 = y
	}
	if check {
		if err := mc.AcceptanceChecks(base, fm); err != nil {
			report.ChecksError = err.Error()
		}
	}
	return report, nil
}
