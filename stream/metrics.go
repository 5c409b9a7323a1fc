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

package stream

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/fixcodec/common"
	"github.com/packetd/fixcodec/sofh"
	"github.com/packetd/fixcodec/tagvalue"
)

var (
	decodedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "messages_total",
			Help:      "Decoded tag-value messages total",
		},
		[]string{"result"},
	)

	decodedFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "frames_total",
			Help:      "Decoded SOFH frames total",
		},
		[]string{"encoding"},
	)
)

const (
	resultOK                 = "ok"
	resultFormat             = "format"
	resultChecksum           = "checksum"
	resultUnsupportedVersion = "unsupported_version"
	resultFraming            = "framing"
	resultTruncated          = "truncated"
)

const (
	encodingFAST    = "fast"
	encodingPrivate = "private"
	encodingUnknown = "unknown"
)

// encodingLabel 将编码类型收敛到有限的 label 取值 FAST 模板与私有编码不再逐一区分
func encodingLabel(e sofh.EncodingType) string {
	switch {
	case e.IsFAST():
		return encodingFAST
	case e.IsPrivate():
		return encodingPrivate
	case !e.Known():
		return encodingUnknown
	}
	return e.String()
}

func resultOf(err error) string {
	var e *tagvalue.Error
	if !errors.As(err, &e) {
		return resultFraming
	}

	switch e.Kind {
	case tagvalue.KindChecksum:
		return resultChecksum
	case tagvalue.KindUnsupportedVersion:
		return resultUnsupportedVersion
	}
	return resultFormat
}
