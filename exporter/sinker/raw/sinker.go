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

package raw

import (
	"bytes"
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/packetd/fixcodec/common"
	"github.com/packetd/fixcodec/exporter"
)

func init() {
	exporter.Register(exporter.SinkerRaw, New)
}

// Sinker 逐行输出原始报文 配置了 Separator 时 SOH 会被替换
type Sinker struct {
	wr      io.WriteCloser
	cfg     *exporter.RawConfig
	replace bool
	sep     byte
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.Raw
	cfg.Validate()

	s := &Sinker{cfg: cfg}
	if cfg.Separator != "" {
		sep, err := common.ParseSeparator(cfg.Separator)
		if err != nil {
			return nil, err
		}
		s.sep = sep
		s.replace = sep != common.SOH
	}
	s.wr = cfg.NewWriter()
	return s, nil
}

func (s *Sinker) Name() string {
	return exporter.SinkerRaw
}

func (s *Sinker) Sink(record *common.Record) error {
	if len(record.Raw) == 0 {
		return nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if s.replace {
		raw := record.Raw
		for {
			idx := bytes.IndexByte(raw, common.SOH)
			if idx < 0 {
				buf.Write(raw)
				break
			}
			buf.Write(raw[:idx])
			buf.WriteByte(s.sep)
			raw = raw[idx+1:]
		}
	} else {
		buf.Write(record.Raw)
	}
	buf.WriteByte('\n')

	_, err := s.wr.Write(buf.B)
	return err
}

func (s *Sinker) Close() {
	s.wr.Close()
}
