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

package exporter

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/packetd/fixcodec/common"
	"github.com/packetd/fixcodec/confengine"
)

type Exporter struct {
	conf    Config
	sinkers []Sinker
}

// New 创建 Exporter 仅启用 .Enabled 为 true 的 Sinker
func New(conf *confengine.Config) (*Exporter, error) {
	var cfg Config
	if err := conf.UnpackChild("exporter", &cfg); err != nil {
		return nil, err
	}

	enabled := map[string]bool{
		SinkerRecords: cfg.Records.Enabled,
		SinkerRaw:     cfg.Raw.Enabled,
	}

	exp := &Exporter{conf: cfg}
	for _, name := range []string{SinkerRecords, SinkerRaw} {
		if !enabled[name] {
			continue
		}
		f := Get(name)
		if f == nil {
			exp.Close()
			return nil, errors.Errorf("exporter: sinker %s not registered", name)
		}
		sinker, err := f(cfg)
		if err != nil {
			exp.Close()
			return nil, errors.Wrapf(err, "exporter: create sinker %s", name)
		}
		exp.sinkers = append(exp.sinkers, sinker)
	}
	return exp, nil
}

// Sinkers 返回已启用的 Sinker 名称
func (e *Exporter) Sinkers() []string {
	names := make([]string, 0, len(e.sinkers))
	for _, s := range e.sinkers {
		names = append(names, s.Name())
	}
	return names
}

// Export 将 record 写入所有 Sinker 单个 Sinker 失败不影响其余 Sinker
func (e *Exporter) Export(record *common.Record) error {
	var errs error
	for _, s := range e.sinkers {
		if err := s.Sink(record); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "sink %s", s.Name()))
		}
	}
	return errs
}

func (e *Exporter) Close() {
	for _, s := range e.sinkers {
		s.Close()
	}
}
