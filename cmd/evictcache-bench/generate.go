package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/evictcache/benchmark/trace"
)

var genCfg = trace.DefaultGenerateConfig()

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic access trace",
	Long: `Generate a trace with Zipf-distributed keys. The output is compressed
according to its extension (.zst, .gz, or plain text otherwise).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		ops, err := trace.Generate(genCfg)
		if err != nil {
			return err
		}
		if err := trace.WriteFile(output, ops); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d operations to %s\n", len(ops), output)
		return nil
	},
}

func init() {
	addGenerateFlags(generateCmd)
	generateCmd.Flags().StringP("output", "o", "trace.txt.zst", "output trace file")

	rootCmd.AddCommand(generateCmd)
}

// addGenerateFlags binds the generator settings to cmd's flags.
func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&genCfg.Ops, "ops", genCfg.Ops, "number of operations")
	f.IntVar(&genCfg.Keys, "keys", genCfg.Keys, "number of distinct keys")
	f.Float64Var(&genCfg.Skew, "skew", genCfg.Skew, "Zipf exponent (> 1)")
	f.Float64Var(&genCfg.PutRatio, "put-ratio", genCfg.PutRatio, "fraction of puts")
	f.Float64Var(&genCfg.DelRatio, "del-ratio", genCfg.DelRatio, "fraction of deletes")
	f.Float64Var(&genCfg.AdvanceRatio, "advance-ratio", genCfg.AdvanceRatio, "fraction of clock advances")
	f.DurationVar(&genCfg.TTL, "put-ttl", genCfg.TTL, "TTL of generated puts (0 for none)")
	f.DurationVar(&genCfg.Step, "step", genCfg.Step, "clock step of generated advances")
	f.Uint64Var(&genCfg.Seed, "seed", genCfg.Seed, "random seed")
}
