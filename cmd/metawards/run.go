package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	mw "github.com/kentwait/metawards"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation to completion",
	Args:  cobra.NoArgs,
	RunE:  runSimulation,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate a run configuration without simulating",
	Args:  cobra.NoArgs,
	RunE:  validateConfig,
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, validateCmd} {
		cmd.Flags().Int("threads", 0, "override nthreads from the config file")
		cmd.Flags().Int64("seed", 0, "override the RNG seed from the config file")
		cmd.Flags().Int("steps", 0, "override nsteps from the config file")
		cmd.Flags().String("output", "", "override output_dir from the config file")
		cmd.Flags().String("metrics-addr", "", "override metrics_addr from the config file")
		cmd.Flags().Bool("debug-checks", false, "override debug_checks from the config file")
	}
}

func loadAndOverrideConfig(cmd *cobra.Command) (*mw.RunConfig, error) {
	if cfgFile == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := mw.LoadRunConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.BindPFlag("threads", cmd.Flags().Lookup("threads"))
	v.BindPFlag("seed", cmd.Flags().Lookup("seed"))
	v.BindPFlag("steps", cmd.Flags().Lookup("steps"))
	v.BindPFlag("output", cmd.Flags().Lookup("output"))
	v.BindPFlag("metrics-addr", cmd.Flags().Lookup("metrics-addr"))
	v.BindPFlag("debug-checks", cmd.Flags().Lookup("debug-checks"))

	if cmd.Flags().Changed("threads") {
		cfg.NThreads = v.GetInt("threads")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if cmd.Flags().Changed("steps") {
		cfg.NSteps = v.GetInt("steps")
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = v.GetString("output")
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = v.GetString("metrics-addr")
	}
	if cmd.Flags().Changed("debug-checks") {
		cfg.DebugChecks = v.GetBool("debug-checks")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadAndOverrideConfig(cmd)
	if err != nil {
		return err
	}
	logger.Info().Str("network", cfg.NetworkPath).Str("disease", cfg.DiseaseName).Msg("configuration is valid")
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadAndOverrideConfig(cmd)
	if err != nil {
		return err
	}

	wards, err := mw.LoadWardsFromJSON(cfg.NetworkPath)
	if err != nil {
		return err
	}
	if err := wards.Resolve(); err != nil {
		return err
	}

	disease, err := mw.LoadDisease(cfg.DiseaseName, cfg.SearchPaths)
	if err != nil {
		return err
	}

	var params *mw.Parameters
	if cfg.ParamsName != "" {
		params, err = mw.LoadParameters(cfg.ParamsName, cfg.SearchPaths)
		if err != nil {
			return err
		}
	} else {
		params = mw.DefaultParameters()
	}
	params.SetDisease(disease)
	params.SetInputFiles(cfg.NetworkPath)

	overall, err := mw.CompileNetwork(wards, params, cfg.NThreads)
	if err != nil {
		return err
	}

	var sets mw.VariableSets
	if cfg.VariableSetPath != "" {
		sets, err = mw.ReadVariables(cfg.VariableSetPath, cfg.VariableSetLines)
		if err != nil {
			return err
		}
	} else {
		sets = mw.VariableSets{Sets: []mw.VariableSet{mw.NewVariableSet(nil, nil)}}
	}
	repeats := cfg.Repeats
	if repeats > 1 {
		sets = sets.Repeat(repeats)
	}

	registry := mw.NewPluginRegistry()

	var metrics *mw.Metrics
	var metricsCancel context.CancelFunc
	if cfg.MetricsAddr != "" {
		metrics = mw.NewMetrics()
		var metricsCtx context.Context
		metricsCtx, metricsCancel = context.WithCancel(context.Background())
		go func() {
			if err := metrics.Serve(metricsCtx, cfg.MetricsAddr); err != nil {
				logger.Warn().Err(err).Msg("metrics server stopped")
			}
		}()
		defer metricsCancel()
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	for i, vs := range sets.Sets {
		instance := i + 1
		select {
		case <-sigCtx.Done():
			return fmt.Errorf("interrupted before instance %d", instance)
		default:
		}

		runParams := params
		if len(vs.Names) > 0 {
			runParams, err = params.WithOverrides(vs.Overrides())
			if err != nil {
				return err
			}
		}

		var nets *mw.Networks
		if cfg.Demographics().N() > 0 {
			nets, err = mw.BuildNetworks(overall, cfg.Demographics(), cfg.NThreads)
			if err != nil {
				return err
			}
			if err := nets.Update(runParams); err != nil {
				return err
			}
		} else {
			overall.Params = runParams
			nets = &mw.Networks{Overall: overall}
		}

		inf := mw.BuildNetworksInfections(nets, disease)
		seedTarget, seedNet := inf, nets.Overall
		if len(inf.SubWorks) > 0 {
			seedTarget, seedNet = inf.SubWorks[0], nets.Subnets[0]
		}
		if err := seedTarget.SeedInitial(seedNet, 1, runParams.InitialInf); err != nil {
			return err
		}

		pop := mw.NewPopulation(disease, wards.TotalPopulation())
		pop.TallyNetworks(nets, inf)

		master := mw.SeedMaster(cfg.Seed + int64(vs.RepeatIndex))
		rngs := mw.CreateThreadGenerators(master, cfg.NThreads)

		plan, err := mw.NewRunPlan(registry, nets, pop, inf, rngs, cfg.NThreads, cfg.NSteps,
			cfg.Iterator, cfg.Mixer, cfg.Mover, cfg.Extractor)
		if err != nil {
			return err
		}
		plan.DebugChecks = cfg.DebugChecks
		if cfg.AdditionalSeedsPath != "" {
			plan.Seeder = mw.NewSeeder(cfg.AdditionalSeedsPath, wards, time.Now().UTC())
		}

		id := mw.NewRunID()
		dir := mw.RunDir(cfg.OutputDir, vs.Fingerprint(true), id)
		if err := mw.EnsureRunDir(dir); err != nil {
			return err
		}

		popRecords := make(chan mw.PopulationRecord, 64)
		writerDone := make(chan error, 1)
		if cfg.EnableCSV {
			csvLogger := mw.NewCSVLogger(dir)
			go func() { writerDone <- csvLogger.WritePopulation(popRecords) }()
		} else if cfg.EnableSQLite {
			sqliteLogger := mw.NewSQLiteLogger(dir, instance)
			if err := sqliteLogger.Init(); err != nil {
				return err
			}
			go func() { writerDone <- sqliteLogger.WritePopulation(popRecords) }()
		} else {
			go func() {
				for range popRecords {
				}
				writerDone <- nil
			}()
		}

		plan.OnDay = func(day int, p *mw.Population) error {
			popRecords <- mw.PopulationRecord{
				Day:          day,
				Susceptibles: p.Susceptibles,
				Latent:       p.Latent,
				Infected:     p.TotalInfected() - p.Latent,
				Removed:      p.Removed,
			}
			if metrics != nil {
				metrics.Observe(p)
			}
			return nil
		}

		logger.Info().Int("instance", instance).Str("dir", dir).Msg("starting instance")
		start := time.Now()
		daysRun, runErr := plan.Run()
		close(popRecords)
		if writeErr := <-writerDone; writeErr != nil && runErr == nil {
			runErr = writeErr
		}
		if runErr != nil {
			return fmt.Errorf("instance %d: %w", instance, runErr)
		}
		logger.Info().Int("instance", instance).Int("days", daysRun).Dur("elapsed", time.Since(start)).Msg("instance complete")
	}

	return nil
}
