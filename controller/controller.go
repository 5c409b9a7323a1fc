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

package controller

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/fixcodec/common"
	"github.com/packetd/fixcodec/confengine"
	"github.com/packetd/fixcodec/dictionary"
	"github.com/packetd/fixcodec/exporter"
	"github.com/packetd/fixcodec/internal/json"
	"github.com/packetd/fixcodec/internal/pubsub"
	"github.com/packetd/fixcodec/internal/rescue"
	"github.com/packetd/fixcodec/logger"
	"github.com/packetd/fixcodec/server"
	"github.com/packetd/fixcodec/stream"
	"github.com/packetd/fixcodec/tagvalue"
)

// Controller 串联 字典 -> 解码器 -> 输入流 -> Exporter
type Controller struct {
	cfg       Config
	buildInfo common.BuildInfo
	log       logger.Logger

	dict *dictionary.Dictionary
	dec  *tagvalue.Decoder
	exp  *exporter.Exporter
	svr  *server.Server
	bus  *pubsub.PubSub[[]byte]
}

func setupLogger(conf *confengine.Config) error {
	var opts logger.Options
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return err
	}

	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 10
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100
	}
	if opts.Level == "" {
		opts.Level = string(logger.LevelInfo)
	}

	logger.SetOptions(opts)
	return nil
}

// LoadDictionary Path 不为空时从文件加载 QuickFIX 字典 否则按 BeginString 查找内置字典
func LoadDictionary(cfg DictionaryConfig) (*dictionary.Dictionary, error) {
	if cfg.Path == "" {
		dict, ok := dictionary.Get(cfg.BeginString)
		if !ok {
			return nil, errors.Errorf("controller: no builtin dictionary for %s", cfg.BeginString)
		}
		return dict, nil
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, "controller: open dictionary")
	}
	defer f.Close()

	dict, err := dictionary.LoadQuickFIX(f)
	if err != nil {
		return nil, errors.Wrapf(err, "controller: load dictionary %s", cfg.Path)
	}
	return dict, nil
}

func New(conf *confengine.Config, buildInfo common.BuildInfo) (*Controller, error) {
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	var cfg Config
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return nil, err
	}
	cfg.Validate()

	dict, err := LoadDictionary(cfg.Dictionary)
	if err != nil {
		return nil, err
	}

	opts, err := conf.ChildOptions("controller.decoder")
	if err != nil {
		return nil, err
	}
	decCfg, err := tagvalue.ConfigFromOptions(opts)
	if err != nil {
		return nil, err
	}
	dec := tagvalue.NewDecoder(dict)
	dec.SetConfig(decCfg)

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	exp, err := exporter.New(conf)
	if err != nil {
		return nil, err
	}

	return &Controller{
		cfg:       cfg,
		buildInfo: buildInfo,
		log:       logger.Named("controller"),
		dict:      dict,
		dec:       dec,
		exp:       exp,
		svr:       svr,
		bus:       pubsub.New[[]byte](),
	}, nil
}

// Dictionary 返回解码使用的字典
func (c *Controller) Dictionary() *dictionary.Dictionary {
	return c.dict
}

// Start 启动管理端服务 未启用时直接返回
func (c *Controller) Start() error {
	if c.svr == nil {
		return nil
	}

	c.setupServer()
	go func() {
		err := c.svr.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Errorf("failed to start server: %v", err)
		}
	}()
	return nil
}

func (c *Controller) Stop() {
	if c.svr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.svr.Shutdown(ctx); err != nil {
			c.log.Warnf("failed to shutdown server: %v", err)
		}
	}
	c.exp.Close()
}

// Run 持续解码 r 直至输入结束 ctx 被取消或者遇到不可恢复的错误
//
// 输入正常结束时返回 nil
func (c *Controller) Run(ctx context.Context, r io.Reader) (err error) {
	defer rescue.Recover(&err)

	if c.cfg.SOFH.Enabled {
		return c.runFramed(ctx, r)
	}
	return c.runStream(ctx, r)
}

func (c *Controller) runStream(ctx context.Context, r io.Reader) error {
	sr := stream.NewReader(r, c.dec.Buffered(), stream.WithLogger(c.log))
	defer sr.Close()

	for seq := 1; ; seq++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := sr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if !c.recoverable(err) {
				return err
			}
			if err := c.emit(&common.Record{Seq: seq, Error: err.Error()}); err != nil {
				return err
			}
			continue
		}

		if err := c.emit(c.newRecord(seq, msg)); err != nil {
			return err
		}
	}
}

func (c *Controller) runFramed(ctx context.Context, r io.Reader) error {
	fr := stream.NewFramedReader(r, c.dec,
		stream.WithLogger(c.log),
		stream.WithMaxFrameSize(c.cfg.SOFH.MaxFrameSize),
	)
	defer fr.Close()

	for seq := 1; ; seq++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, msg, err := fr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		var record *common.Record
		switch {
		case err != nil:
			if !c.recoverable(err) {
				return err
			}
			record = &common.Record{Seq: seq, Error: err.Error(), Raw: frame.Payload}
		case msg != nil:
			record = c.newRecord(seq, msg)
		default:
			record = &common.Record{Seq: seq}
		}
		record.Encoding = frame.EncodingType.String()
		record.PayloadSize = len(frame.Payload)

		if err := c.emit(record); err != nil {
			return err
		}
	}
}

// recoverable 仅消息级别的解码错误允许跳过 读取以及分帧错误总是终止
func (c *Controller) recoverable(err error) bool {
	if !c.cfg.ContinueOnError {
		return false
	}
	return errors.Is(err, tagvalue.ErrFormat) ||
		errors.Is(err, tagvalue.ErrChecksum) ||
		errors.Is(err, tagvalue.ErrUnsupportedVersion)
}

func (c *Controller) emit(record *common.Record) error {
	if err := c.exp.Export(record); err != nil {
		exportedRecords.WithLabelValues("failed").Inc()
		return errors.Wrapf(err, "controller: export record #%d", record.Seq)
	}
	exportedRecords.WithLabelValues("success").Inc()

	if c.bus.Num() == 0 {
		return nil
	}
	b, err := json.Marshal(record)
	if err != nil {
		c.log.Warnf("failed to marshal record #%d: %v", record.Seq, err)
		return nil
	}
	c.bus.Publish(b)
	return nil
}

func (c *Controller) recordMetrics() {
	uptime.Set(float64(time.Now().Unix() - common.Started()))
	buildInfo.WithLabelValues(c.buildInfo.Version, c.buildInfo.GitHash, c.buildInfo.Time).Set(1)
	watchSubscribers.Set(float64(c.bus.Num()))
}
