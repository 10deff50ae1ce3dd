// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/binaek/cling"

	"github.com/civitas-sh/civitas/api"
	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/catversion"
	"github.com/civitas-sh/civitas/constants"
	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/extractconfig"
	"github.com/civitas-sh/civitas/otel"
	"github.com/civitas-sh/civitas/registry"
	"github.com/civitas-sh/civitas/scripting"
)

func addServeCmd(cli *cling.CLI, version string) {
	cli.WithCommand(
		cling.NewCommand("serve", makeServeCmd(version)).
			WithFlag(cling.
				NewIntCmdInput("port").
				WithDefault(7529).
				WithDescription("Port to listen on").
				AsFlag(),
			).
			WithFlag(cling.
				NewCmdSliceInput[string]("listen").
				WithDefault([]string{"local"}).
				WithDescription("Address(es) to listen on").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("state-dir").
				WithDefault("./state").
				WithDescription("Directory holding the catalogue version store, dataset store, vocabulary and model registry").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("extract-config-root").
				WithDefault(".").
				WithDescription("Directory to locate extraction.toml in (searched upward)").
				AsFlag().
				FromEnv([]string{constants.EnvExtractRoot}),
			).
			WithFlag(
				cling.NewBoolCmdInput("otel-enabled").
					WithDefault(false).
					WithDescription("Enable OpenTelemetry tracing").
					AsFlag().
					FromEnv([]string{constants.EnvOtelEnabled}),
			).
			WithFlag(
				cling.NewStringCmdInput("otel-endpoint").
					WithDefault("http://localhost:4317").
					WithDescription("OpenTelemetry endpoint to send traces to").
					AsFlag().
					FromEnv([]string{constants.EnvOtelEndpoint}),
			).
			WithFlag(
				cling.NewStringCmdInput("otel-protocol").
					WithDefault("grpc").
					WithValidator(cling.NewEnumValidator("http", "grpc")).
					WithDescription("OpenTelemetry protocol. Allowed values: http, grpc.").
					AsFlag().
					FromEnv([]string{constants.EnvOtelProtocol}),
			).
			WithFlag(
				cling.NewBoolCmdInput("otel-trace-execution").
					WithDefault(false).
					WithDescription("Enable OpenTelemetry tracing for detailed evaluation execution.").
					AsFlag().
					FromEnv([]string{constants.EnvOtelTraceExecution}),
			),
	)
}

type serveCmdArgs struct {
	Port               int      `cling-name:"port"`
	Listen             []string `cling-name:"listen"`
	StateDir           string   `cling-name:"state-dir"`
	ExtractConfigRoot  string   `cling-name:"extract-config-root"`
	OtelEnabled        bool     `cling-name:"otel-enabled"`
	OtelEndpoint       string   `cling-name:"otel-endpoint"`
	OtelProtocol       string   `cling-name:"otel-protocol"`
	OtelTraceExecution bool     `cling-name:"otel-trace-execution"`
}

func makeServeCmd(version string) func(ctx context.Context, args []string) error {
	return func(ctx context.Context, args []string) error {
		input := serveCmdArgs{}
		if err := cling.Hydrate(ctx, args, &input); err != nil {
			return err
		}

		var otelCleanup otel.ShutdownFn
		otelConfig := otel.OTelConfig{
			Enabled:        input.OtelEnabled,
			Endpoint:       input.OtelEndpoint,
			Protocol:       input.OtelProtocol,
			ServiceName:    constants.APPNAME,
			ServiceVersion: version,
			TraceExecution: input.OtelEnabled && input.OtelTraceExecution,
		}

		if otelConfig.Enabled {
			var err error
			otelCleanup, err = otel.InitProvider(ctx, otelConfig)
			if err != nil {
				return err
			}
			defer func() {
				if otelCleanup != nil {
					_ = otelCleanup(context.WithoutCancel(ctx))
				}
			}()
		}

		app, err := buildApp(ctx, input.StateDir, input.ExtractConfigRoot)
		if err != nil {
			return err
		}

		server := api.NewHTTPAPI(app)
		if err := server.Setup(ctx, input.Port, input.Listen); err != nil {
			return err
		}

		go server.StartServer(ctx, input.Port, input.Listen)

		<-ctx.Done()

		return server.StopServer(ctx)
	}
}

// buildApp wires every durable component rooted under stateDir: the
// catalogue version store (v0 initialized empty if new), the dataset store
// and vocabulary, and the model registry.
func buildApp(ctx context.Context, stateDir, extractConfigRoot string) (*api.App, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, err
	}

	catDir := filepath.Join(stateDir, "catalogue")
	catStore := catversion.NewStore(catDir)
	if err := catStore.Init(ctx, catalogue.New(), map[string]string{}); err != nil {
		return nil, err
	}

	samples, err := dataset.OpenStore(filepath.Join(stateDir, "samples.jsonl"))
	if err != nil {
		return nil, err
	}

	vocab, err := dataset.LoadVocab(filepath.Join(stateDir, "vocab.toml"))
	if err != nil {
		return nil, err
	}

	models, err := registry.Open(filepath.Join(stateDir, "models.json"))
	if err != nil {
		return nil, err
	}

	var extractCfg *extractconfig.Config
	if cfg, err := extractconfig.Load(ctx, extractConfigRoot); err == nil {
		extractCfg = cfg
	}

	scripts, err := scripting.NewPool(8)
	if err != nil {
		return nil, err
	}

	app := api.NewApp(catStore, samples, vocab, models, extractCfg, scripts)
	app.ModelDir = filepath.Join(stateDir, "models")
	return app, nil
}
