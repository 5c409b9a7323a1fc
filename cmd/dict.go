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
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/packetd/fixcodec/controller"
	"github.com/packetd/fixcodec/dictionary"
	"github.com/packetd/fixcodec/internal/json"
)

type dictCmdConfig struct {
	Dictionary  string
	BeginString string
	Messages    bool
}

type fieldInfo struct {
	Tag     uint32            `json:"tag"`
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	DataTag uint32            `json:"dataTag,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
}

type messageInfo struct {
	MsgType  string   `json:"msgType"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Required []uint32 `json:"required"`
}

// runDict 输出字段定义 args 为空时输出全部字段 元素可以为 tag 或者字段名称
func runDict(w io.Writer, c *dictCmdConfig, args []string, pretty bool) error {
	dict, err := controller.LoadDictionary(controller.DictionaryConfig{
		Path:        c.Dictionary,
		BeginString: c.BeginString,
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	if pretty {
		encoder = json.NewIndentEncoder(w, "  ")
	}

	if c.Messages {
		for _, code := range dict.MessageTypes() {
			ms, _ := dict.LookupMessageType(code)
			info := messageInfo{MsgType: ms.MsgType, Name: ms.Name, Category: ms.Category, Required: ms.RequiredTags()}
			if err := encoder.Encode(info); err != nil {
				return err
			}
		}
		return nil
	}

	toInfo := func(fd dictionary.FieldDescriptor) fieldInfo {
		return fieldInfo{Tag: fd.Tag, Name: fd.Name, Type: fd.Datatype.String(), DataTag: fd.DataTag, Values: fd.Values}
	}

	if len(args) == 0 {
		dict.Range(func(fd dictionary.FieldDescriptor) bool {
			err = encoder.Encode(toInfo(fd))
			return err == nil
		})
		return err
	}

	for _, arg := range args {
		fd, ok := dict.FieldByName(arg)
		if !ok {
			tag, err := cast.ToUint32E(arg)
			if err != nil {
				return errors.Errorf("unknown field %q", arg)
			}
			if fd, ok = dict.LookupField(tag); !ok {
				return errors.Errorf("unknown tag %d", tag)
			}
		}
		if err := encoder.Encode(toInfo(fd)); err != nil {
			return err
		}
	}
	return nil
}

var dictConfig dictCmdConfig

var dictCmd = &cobra.Command{
	Use:   "dict [tag|name]...",
	Short: "Show field and message definitions of a dictionary",
	Run: func(cmd *cobra.Command, args []string) {
		pretty := term.IsTerminal(int(os.Stdout.Fd()))
		if err := runDict(os.Stdout, &dictConfig, args, pretty); err != nil {
			fmt.Fprintf(os.Stderr, "failed to show dictionary: %v\n", err)
			os.Exit(1)
		}
	},
	Example: "# fixcodec dict 35 Symbol\n# fixcodec dict --messages --dict FIX50SP2.xml",
}

func init() {
	dictCmd.Flags().StringVar(&dictConfig.Dictionary, "dict", "", "QuickFIX XML dictionary path, builtin dictionary is used when empty")
	dictCmd.Flags().StringVar(&dictConfig.BeginString, "begin-string", "FIX.4.4", "BeginString of the builtin dictionary")
	dictCmd.Flags().BoolVar(&dictConfig.Messages, "messages", false, "List message types instead of fields")
	rootCmd.AddCommand(dictCmd)
}
