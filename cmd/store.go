package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/msj/internal/kvstore"
)

var flagStorePath string

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Read and write the JSON documents behind progress, history and theme",
}

var storeKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the allowed keys and their files",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		kv := kvstore.Open(loadConfig().DataDir())
		for _, k := range kvstore.Keys() {
			fmt.Printf("  %-16s %s\n", k, kv.Path(k))
		}
		return nil
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a document, or the part selected by --path",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storePutCmd = &cobra.Command{
	Use:   "put KEY [JSON|-]",
	Short: "Replace a document with JSON from the argument or stdin",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runStorePut,
}

func init() {
	storeGetCmd.Flags().StringVar(&flagStorePath, "path", "", `JSONPath expression, e.g. "$.amount" or "$[0].title"`)
	storeCmd.AddCommand(storeKeysCmd, storeGetCmd, storePutCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStoreGet(_ *cobra.Command, args []string) error {
	kv := kvstore.Open(loadConfig().DataDir())
	v, err := kv.Query(args[0], flagStorePath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

func runStorePut(_ *cobra.Command, args []string) error {
	var raw []byte
	if len(args) == 1 || args[1] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		raw = data
	} else {
		raw = []byte(args[1])
	}

	kv := kvstore.Open(loadConfig().DataDir())
	if err := kv.Put(args[0], bytes.TrimSpace(raw)); err != nil {
		return err
	}
	infof("  Wrote %s\n", kv.Path(args[0]))
	return nil
}
