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

package records

import (
	"io"

	"github.com/packetd/fixcodec/common"
	"github.com/packetd/fixcodec/exporter"
	"github.com/packetd/fixcodec/internal/json"
)

func init() {
	exporter.Register(exporter.SinkerRecords, New)
}

type Sinker struct {
	wr      io.WriteCloser
	encoder json.Encoder
	cfg     *exporter.RecordsConfig
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.Records
	cfg.Validate()

	wr := cfg.NewWriter()
	encoder := json.NewEncoder(wr)
	if cfg.Pretty {
		encoder = json.NewIndentEncoder(wr, "  ")
	}

	return &Sinker{
		wr:      wr,
		cfg:     cfg,
		encoder: encoder,
	}, nil
}

func (s *Sinker) Name() string {
	return exporter.SinkerRecords
}

func (s *Sinker) Sink(record *common.Record) error {
	return s.encoder.Encode(record)
}

func (s *Sinker) Close() {
	s.wr.Close()
}
