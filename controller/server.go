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
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"

	"github.com/packetd/fixcodec/internal/json"
	"github.com/packetd/fixcodec/logger"
)

func (c *Controller) setupServer() {
	if c.svr == nil {
		return
	}

	// Admin Routes
	c.svr.RegisterPostRoute("/-/logger", c.routeLogger)

	// Watch Routes
	c.svr.RegisterGetRoute("/watch", c.routeWatch)

	// Dictionary Routes
	c.svr.RegisterGetRoute("/dictionary", c.routeDictionary)
	c.svr.RegisterGetRoute("/dictionary/fields/{tag}", c.routeField)

	// Metrics Routes
	c.svr.RegisterGetRoute("/metrics", c.routeMetrics)
}

func (c *Controller) routeMetrics(w http.ResponseWriter, r *http.Request) {
	c.recordMetrics()
	promhttp.Handler().ServeHTTP(w, r)
}

func (c *Controller) routeLogger(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	logger.SetLoggerLevel(level)
	w.Write([]byte(`{"status": "success"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}

func (c *Controller) routeDictionary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":         c.dict.Name(),
		"beginString":  c.dict.BeginString(),
		"fields":       c.dict.Len(),
		"messageTypes": c.dict.MessageTypes(),
	})
}

func (c *Controller) routeField(w http.ResponseWriter, r *http.Request) {
	s := mux.Vars(r)["tag"]
	tag, err := cast.ToUint32E(s)
	if err != nil {
		fd, ok := c.dict.FieldByName(s)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown field " + s})
			return
		}
		tag = fd.Tag
	}

	fd, ok := c.dict.LookupField(tag)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown tag " + s})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tag":     fd.Tag,
		"name":    fd.Name,
		"type":    fd.Datatype.String(),
		"dataTag": fd.DataTag,
		"values":  fd.Values,
	})
}

// routeWatch 以 JSON Lines 推送实时解码结果
//
// 参数 max_message 控制最多推送的记录数量 timeout 为等待单条记录的超时时间
func (c *Controller) routeWatch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("streaming unsupported"))
		return
	}

	var maxMessage int
	maxMessage, _ = strconv.Atoi(r.URL.Query().Get("max_message"))
	if maxMessage <= 0 {
		maxMessage = 100
	}

	var timeout time.Duration
	timeout, _ = time.ParseDuration(r.URL.Query().Get("timeout"))
	if timeout <= 0 {
		timeout = time.Second * 5
	}

	queue := c.bus.Subscribe(10)
	defer c.bus.Unsubscribe(queue)

	w.Header().Set("Content-Type", "application/x-ndjson")
	for i := 0; i < maxMessage; i++ {
		data, ok := queue.PopTimeout(timeout)
		if !ok {
			return
		}

		w.Write(data)
		w.Write([]byte{'\n'})
		flusher.Flush()
	}
}
