// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/packetd/fixcodec/common"
	"github.com/packetd/fixcodec/confengine"
	"github.com/packetd/fixcodec/controller"
	"github.com/packetd/fixcodec/internal/sigs"
	"github.com/packetd/fixcodec/tagvalue"
)

type decodeCmdConfig struct {
	Config          string
	File            string
	Separator       string
	Dictionary      string
	BeginString     string
	BeginStrings    []string
	SOFH            bool
	MaxFrameSize    int
	MaxMessageSize  int
	NoVerify        bool
	Typed           bool
	Describe        bool
	ContinueOnError bool
	Pretty          bool
	Output          string
	OutputSize      int
	OutputBackups   int
	Raw             bool
	Listen          string
	Wait            bool
	LogLevel        string
	PrintMetrics    bool
}

func (c *decodeCmdConfig) Yaml() []byte {
	text := `
logger:
  stderr: true
  level: {{ printf "%q" .LogLevel }}

controller:
  continueOnError: {{ .ContinueOnError }}
  dictionary:
    path: {{ printf "%q" .Dictionary }}
    beginString: {{ printf "%q" .BeginString }}
  sofh:
    enabled: {{ .SOFH }}
    maxFrameSize: {{ .MaxFrameSize }}
  record:
    typed: {{ .Typed }}
    describe: {{ .Describe }}
  decoder:
    separator: {{ printf "%q" .Separator }}
    verifyChecksum: {{ not .NoVerify }}
{{- if gt .MaxMessageSize 0 }}
    maxMessageSize: {{ .MaxMessageSize }}
{{- end }}
{{- if .BeginStrings }}
    beginStrings:
{{- range .BeginStrings }}
    - {{ printf "%q" . }}
{{- end }}
{{- end }}

server:
  enabled: {{ ne .Listen "" }}
  address: {{ printf "%q" .Listen }}

exporter:
  records:
    enabled: {{ not .Raw }}
    pretty: {{ .Pretty }}
    console: {{ eq .Output "" }}
    filename: {{ printf "%q" .Output }}
    maxSize: {{ .OutputSize }}
    maxBackups: {{ .OutputBackups }}
  raw:
    enabled: {{ .Raw }}
    separator: "|"
    console: {{ eq .Output "" }}
    filename: {{ printf "%q" .Output }}
    maxSize: {{ .OutputSize }}
    maxBackups: {{ .OutputBackups }}
`
	tpl, err := template.New("Config").Parse(text)
	if err != nil {
		return nil
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, c); err != nil {
		return nil
	}
	return buf.Bytes()
}

func (c *decodeCmdConfig) load() (*confengine.Config, error) {
	if c.Config != "" {
		return confengine.LoadConfigPath(c.Config)
	}
	return confengine.LoadContent(c.Yaml())
}

func (c *decodeCmdConfig) input() (io.ReadCloser, error) {
	if c.File == "" || c.File == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(c.File)
}

// writeMetrics 输出本进程的 fixcodec 指标 格式为 Prometheus 文本格式
func writeMetrics(w io.Writer) error {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), common.App+"_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func runDecode(c *decodeCmdConfig) error {
	cfg, err := c.load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	ctr, err := controller.New(cfg, common.GetBuildInfo())
	if err != nil {
		return errors.Wrap(err, "failed to create controller")
	}
	if err := ctr.Start(); err != nil {
		return errors.Wrap(err, "failed to start controller")
	}
	defer ctr.Stop()

	r, err := c.input()
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, cancel := sigs.WithTerminate(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- ctr.Run(ctx, r)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err == nil && c.Wait && c.Listen != "" {
		<-ctx.Done()
	}
	if c.PrintMetrics {
		if err := writeMetrics(os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write metrics: %v\n", err)
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var decodeConfig decodeCmdConfig

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode FIX tag-value messages from a file or stdin",
	Run: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("pretty") {
			decodeConfig.Pretty = decodeConfig.Output == "" && term.IsTerminal(int(os.Stdout.Fd()))
		}
		if err := runDecode(&decodeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "failed to decode: %v\n", err)
			os.Exit(1)
		}
	},
	Example: "# fixcodec decode --file session.log --separator '|' --typed\n" +
		"# fixcodec decode --file capture.bin --sofh --listen localhost:9091 --wait",
}

func init() {
	flags := decodeCmd.Flags()
	flags.StringVar(&decodeConfig.Config, "config", "", "Configuration file path, other flags are ignored when set")
	flags.StringVar(&decodeConfig.File, "file", "-", "Input file, '-' for stdin")
	flags.StringVar(&decodeConfig.Separator, "separator", "SOH", "Field separator, e.g. 'SOH', '|' or '0x01'")
	flags.StringVar(&decodeConfig.Dictionary, "dict", "", "QuickFIX XML dictionary path, builtin dictionary is used when empty")
	flags.StringVar(&decodeConfig.BeginString, "begin-string", "FIX.4.4", "BeginString of the builtin dictionary")
	flags.StringSliceVar(&decodeConfig.BeginStrings, "accept", nil, "Accepted BeginString values, all accepted when empty")
	flags.BoolVar(&decodeConfig.SOFH, "sofh", false, "Input is framed with Simple Open Framing Header")
	flags.IntVar(&decodeConfig.MaxFrameSize, "sofh.max-frame-size", 1<<20, "Maximum SOFH frame size in bytes")
	flags.IntVar(&decodeConfig.MaxMessageSize, "max-message-size", tagvalue.DefaultMaxMessageSize, "Maximum tag-value message size in bytes")
	flags.BoolVar(&decodeConfig.NoVerify, "no-verify", false, "Skip CheckSum(10) verification")
	flags.BoolVar(&decodeConfig.Typed, "typed", false, "Parse field values with dictionary datatypes")
	flags.BoolVar(&decodeConfig.Describe, "describe", true, "Attach enum descriptions to field values")
	flags.BoolVar(&decodeConfig.ContinueOnError, "continue", false, "Emit an error record and continue on message decode errors")
	flags.BoolVar(&decodeConfig.Pretty, "pretty", false, "Indent JSON records, defaults to true when stdout is a terminal")
	flags.StringVar(&decodeConfig.Output, "output", "", "Output file path, stdout when empty")
	flags.IntVar(&decodeConfig.OutputSize, "output.size", 100, "Maximum size of output file in MB")
	flags.IntVar(&decodeConfig.OutputBackups, "output.backups", 10, "Maximum number of old output files to retain")
	flags.BoolVar(&decodeConfig.Raw, "raw", false, "Print raw messages with '|' separators instead of JSON records")
	flags.StringVar(&decodeConfig.Listen, "listen", "", "Address of the admin server (metrics, watch), disabled when empty")
	flags.BoolVar(&decodeConfig.Wait, "wait", false, "Keep the admin server running after input ends")
	flags.StringVar(&decodeConfig.LogLevel, "log.level", "warn", "Log level: debug, info, warn or error")
	flags.BoolVar(&decodeConfig.PrintMetrics, "metrics", false, "Print decode metrics to stderr on exit")
	rootCmd.AddCommand(decodeCmd)
}
