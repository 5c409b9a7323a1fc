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

package dictionary

import (
	"sync"

	"github.com/packetd/fixcodec/datatype"
)

const (
	TagBeginString  uint32 = 8
	TagBodyLength   uint32 = 9
	TagCheckSum     uint32 = 10
	TagMsgSeqNum    uint32 = 34
	TagMsgType      uint32 = 35
	TagSenderCompID uint32 = 49
	TagSendingTime  uint32 = 52
	TagTargetCompID uint32 = 56
)

var (
	fix44Once sync.Once
	fix44Dict *Dictionary
)

// FIX44 返回内置的 FIX 4.4 字典
//
// 内置字典覆盖标准消息头/尾 会话层消息以及常用的订单和行情消息
// 完整字典请使用 LoadQuickFIX 加载
func FIX44() *Dictionary {
	fix44Once.Do(func() {
		d, err := buildFIX44()
		if err != nil {
			panic(err)
		}
		fix44Dict = d
	})
	return fix44Dict
}

type fieldDef struct {
	tag  uint32
	name string
	typ  datatype.Type
	data uint32
}

var fix44Fields = []fieldDef{
	{tag: 1, name: "Account", typ: datatype.TypeString},
	{tag: 6, name: "AvgPx", typ: datatype.TypePrice},
	{tag: 7, name: "BeginSeqNo", typ: datatype.TypeSeqNum},
	{tag: 8, name: "BeginString", typ: datatype.TypeString},
	{tag: 9, name: "BodyLength", typ: datatype.TypeLength},
	{tag: 10, name: "CheckSum", typ: datatype.TypeString},
	{tag: 11, name: "ClOrdID", typ: datatype.TypeString},
	{tag: 14, name: "CumQty", typ: datatype.TypeQty},
	{tag: 15, name: "Currency", typ: datatype.TypeCurrency},
	{tag: 16, name: "EndSeqNo", typ: datatype.TypeSeqNum},
	{tag: 17, name: "ExecID", typ: datatype.TypeString},
	{tag: 18, name: "ExecInst", typ: datatype.TypeMultipleCharValue},
	{tag: 21, name: "HandlInst", typ: datatype.TypeChar},
	{tag: 22, name: "SecurityIDSource", typ: datatype.TypeString},
	{tag: 31, name: "LastPx", typ: datatype.TypePrice},
	{tag: 32, name: "LastQty", typ: datatype.TypeQty},
	{tag: 34, name: "MsgSeqNum", typ: datatype.TypeSeqNum},
	{tag: 35, name: "MsgType", typ: datatype.TypeString},
	{tag: 36, name: "NewSeqNo", typ: datatype.TypeSeqNum},
	{tag: 37, name: "OrderID", typ: datatype.TypeString},
	{tag: 38, name: "OrderQty", typ: datatype.TypeQty},
	{tag: 39, name: "OrdStatus", typ: datatype.TypeChar},
	{tag: 40, name: "OrdType", typ: datatype.TypeChar},
	{tag: 41, name: "OrigClOrdID", typ: datatype.TypeString},
	{tag: 43, name: "PossDupFlag", typ: datatype.TypeBoolean},
	{tag: 44, name: "Price", typ: datatype.TypePrice},
	{tag: 45, name: "RefSeqNum", typ: datatype.TypeSeqNum},
	{tag: 48, name: "SecurityID", typ: datatype.TypeString},
	{tag: 49, name: "SenderCompID", typ: datatype.TypeString},
	{tag: 50, name: "SenderSubID", typ: datatype.TypeString},
	{tag: 52, name: "SendingTime", typ: datatype.TypeUTCTimestamp},
	{tag: 54, name: "Side", typ: datatype.TypeChar},
	{tag: 55, name: "Symbol", typ: datatype.TypeString},
	{tag: 56, name: "TargetCompID", typ: datatype.TypeString},
	{tag: 57, name: "TargetSubID", typ: datatype.TypeString},
	{tag: 58, name: "Text", typ: datatype.TypeString},
	{tag: 59, name: "TimeInForce", typ: datatype.TypeChar},
	{tag: 60, name: "TransactTime", typ: datatype.TypeUTCTimestamp},
	{tag: 64, name: "SettlDate", typ: datatype.TypeLocalMktDate},
	{tag: 75, name: "TradeDate", typ: datatype.TypeLocalMktDate},
	{tag: 89, name: "Signature", typ: datatype.TypeData},
	{tag: 90, name: "SecureDataLen", typ: datatype.TypeLength, data: 91},
	{tag: 91, name: "SecureData", typ: datatype.TypeData},
	{tag: 93, name: "SignatureLength", typ: datatype.TypeLength, data: 89},
	{tag: 95, name: "RawDataLength", typ: datatype.TypeLength, data: 96},
	{tag: 96, name: "RawData", typ: datatype.TypeData},
	{tag: 97, name: "PossResend", typ: datatype.TypeBoolean},
	{tag: 98, name: "EncryptMethod", typ: datatype.TypeInt},
	{tag: 99, name: "StopPx", typ: datatype.TypePrice},
	{tag: 100, name: "ExDestination", typ: datatype.TypeExchange},
	{tag: 102, name: "CxlRejReason", typ: datatype.TypeInt},
	{tag: 103, name: "OrdRejReason", typ: datatype.TypeInt},
	{tag: 108, name: "HeartBtInt", typ: datatype.TypeInt},
	{tag: 110, name: "MinQty", typ: datatype.TypeQty},
	{tag: 112, name: "TestReqID", typ: datatype.TypeString},
	{tag: 115, name: "OnBehalfOfCompID", typ: datatype.TypeString},
	{tag: 122, name: "OrigSendingTime", typ: datatype.TypeUTCTimestamp},
	{tag: 123, name: "GapFillFlag", typ: datatype.TypeBoolean},
	{tag: 126, name: "ExpireTime", typ: datatype.TypeUTCTimestamp},
	{tag: 128, name: "DeliverToCompID", typ: datatype.TypeString},
	{tag: 141, name: "ResetSeqNumFlag", typ: datatype.TypeBoolean},
	{tag: 146, name: "NoRelatedSym", typ: datatype.TypeNumInGroup},
	{tag: 150, name: "ExecType", typ: datatype.TypeChar},
	{tag: 151, name: "LeavesQty", typ: datatype.TypeQty},
	{tag: 167, name: "SecurityType", typ: datatype.TypeString},
	{tag: 200, name: "MaturityMonthYear", typ: datatype.TypeMonthYear},
	{tag: 207, name: "SecurityExchange", typ: datatype.TypeExchange},
	{tag: 212, name: "XmlDataLen", typ: datatype.TypeLength, data: 213},
	{tag: 213, name: "XmlData", typ: datatype.TypeData},
	{tag: 262, name: "MDReqID", typ: datatype.TypeString},
	{tag: 263, name: "SubscriptionRequestType", typ: datatype.TypeChar},
	{tag: 264, name: "MarketDepth", typ: datatype.TypeInt},
	{tag: 265, name: "MDUpdateType", typ: datatype.TypeInt},
	{tag: 267, name: "NoMDEntryTypes", typ: datatype.TypeNumInGroup},
	{tag: 268, name: "NoMDEntries", typ: datatype.TypeNumInGroup},
	{tag: 269, name: "MDEntryType", typ: datatype.TypeChar},
	{tag: 270, name: "MDEntryPx", typ: datatype.TypePrice},
	{tag: 271, name: "MDEntrySize", typ: datatype.TypeQty},
	{tag: 272, name: "MDEntryDate", typ: datatype.TypeUTCDateOnly},
	{tag: 273, name: "MDEntryTime", typ: datatype.TypeUTCTimeOnly},
	{tag: 279, name: "MDUpdateAction", typ: datatype.TypeChar},
	{tag: 354, name: "EncodedTextLen", typ: datatype.TypeLength, data: 355},
	{tag: 355, name: "EncodedText", typ: datatype.TypeData},
	{tag: 369, name: "LastMsgSeqNumProcessed", typ: datatype.TypeSeqNum},
	{tag: 371, name: "RefTagID", typ: datatype.TypeInt},
	{tag: 372, name: "RefMsgType", typ: datatype.TypeString},
	{tag: 373, name: "SessionRejectReason", typ: datatype.TypeInt},
	{tag: 379, name: "BusinessRejectRefID", typ: datatype.TypeString},
	{tag: 380, name: "BusinessRejectReason", typ: datatype.TypeInt},
	{tag: 434, name: "CxlRejResponseTo", typ: datatype.TypeChar},
	{tag: 447, name: "PartyIDSource", typ: datatype.TypeChar},
	{tag: 448, name: "PartyID", typ: datatype.TypeString},
	{tag: 452, name: "PartyRole", typ: datatype.TypeInt},
	{tag: 453, name: "NoPartyIDs", typ: datatype.TypeNumInGroup},
	{tag: 460, name: "Product", typ: datatype.TypeInt},
	{tag: 461, name: "CFICode", typ: datatype.TypeString},
	{tag: 541, name: "MaturityDate", typ: datatype.TypeLocalMktDate},
	{tag: 553, name: "Username", typ: datatype.TypeString},
	{tag: 554, name: "Password", typ: datatype.TypeString},
	{tag: 789, name: "NextExpectedMsgSeqNum", typ: datatype.TypeSeqNum},
}

var fix44Enums = map[uint32]map[string]string{
	35: {
		"0": "Heartbeat", "1": "TestRequest", "2": "ResendRequest", "3": "Reject",
		"4": "SequenceReset", "5": "Logout", "A": "Logon", "D": "NewOrderSingle",
		"8": "ExecutionReport", "F": "OrderCancelRequest", "G": "OrderCancelReplaceRequest",
		"9": "OrderCancelReject", "V": "MarketDataRequest", "W": "MarketDataSnapshotFullRefresh",
		"X": "MarketDataIncrementalRefresh", "j": "BusinessMessageReject",
	},
	39: {
		"0": "NEW", "1": "PARTIALLY_FILLED", "2": "FILLED", "4": "CANCELED",
		"5": "REPLACED", "6": "PENDING_CANCEL", "8": "REJECTED", "A": "PENDING_NEW",
		"C": "EXPIRED", "E": "PENDING_REPLACE",
	},
	40: {"1": "MARKET", "2": "LIMIT", "3": "STOP", "4": "STOP_LIMIT"},
	54: {"1": "BUY", "2": "SELL", "5": "SELL_SHORT"},
	59: {"0": "DAY", "1": "GOOD_TILL_CANCEL", "3": "IMMEDIATE_OR_CANCEL", "4": "FILL_OR_KILL", "6": "GOOD_TILL_DATE"},
	150: {
		"0": "NEW", "4": "CANCELED", "5": "REPLACE", "8": "REJECTED", "C": "EXPIRED",
		"D": "RESTATED", "F": "TRADE", "I": "ORDER_STATUS",
	},
	269: {"0": "BID", "1": "OFFER", "2": "TRADE"},
}

func req(tags ...uint32) []FieldRef {
	refs := make([]FieldRef, 0, len(tags))
	for _, tag := range tags {
		refs = append(refs, FieldRef{Tag: tag, Required: true})
	}
	return refs
}

func opt(tags ...uint32) []FieldRef {
	refs := make([]FieldRef, 0, len(tags))
	for _, tag := range tags {
		refs = append(refs, FieldRef{Tag: tag})
	}
	return refs
}

func refs(groups ...[]FieldRef) []FieldRef {
	var all []FieldRef
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func buildFIX44() (*Dictionary, error) {
	b := NewBuilder("FIX44", "FIX.4.4")
	for _, f := range fix44Fields {
		b.AddField(FieldDescriptor{
			Tag:      f.tag,
			Name:     f.name,
			Datatype: f.typ,
			DataTag:  f.data,
			Values:   fix44Enums[f.tag],
		})
	}

	b.SetHeader(refs(req(8, 9, 35, 49, 56, 34, 52), opt(115, 128, 50, 57, 43, 97, 122, 212, 213))...)
	b.SetTrailer(refs(opt(93, 89), req(10))...)

	parties := opt(453, 448, 447, 452)
	messages := []MessageSchema{
		{MsgType: "0", Name: "Heartbeat", Category: "admin", Fields: opt(112)},
		{MsgType: "1", Name: "TestRequest", Category: "admin", Fields: req(112)},
		{MsgType: "2", Name: "ResendRequest", Category: "admin", Fields: req(7, 16)},
		{MsgType: "3", Name: "Reject", Category: "admin", Fields: refs(req(45), opt(371, 372, 373, 58, 354, 355))},
		{MsgType: "4", Name: "SequenceReset", Category: "admin", Fields: refs(opt(123), req(36))},
		{MsgType: "5", Name: "Logout", Category: "admin", Fields: opt(58, 354, 355)},
		{MsgType: "A", Name: "Logon", Category: "admin", Fields: refs(req(98, 108), opt(95, 96, 141, 789, 553, 554))},
		{MsgType: "D", Name: "NewOrderSingle", Category: "app", Fields: refs(
			req(11), opt(1), parties, opt(21, 18, 110, 100, 55, 48, 22, 167, 200, 541),
			req(54, 60), opt(38), req(40), opt(44, 99, 15, 59, 126, 58, 354, 355),
		)},
		{MsgType: "8", Name: "ExecutionReport", Category: "app", Fields: refs(
			req(37), opt(11, 41), req(17, 150, 39), opt(103, 1), parties, opt(55, 48, 22, 167, 200),
			req(54), opt(38, 40, 44, 99, 59, 32, 31), req(151, 14, 6), opt(60, 75, 64, 15, 58, 354, 355),
		)},
		{MsgType: "F", Name: "OrderCancelRequest", Category: "app", Fields: refs(
			req(41), opt(37), req(11), opt(1), parties, opt(55, 48, 22), req(54, 60), opt(38, 58),
		)},
		{MsgType: "G", Name: "OrderCancelReplaceRequest", Category: "app", Fields: refs(
			opt(37), req(41, 11), opt(1), parties, opt(21, 18, 55, 48, 22), req(54, 60), opt(38), req(40), opt(44, 99, 59, 58),
		)},
		{MsgType: "9", Name: "OrderCancelReject", Category: "app", Fields: refs(
			req(37, 11, 41, 39, 434), opt(1, 102, 60, 58, 354, 355),
		)},
		{MsgType: "V", Name: "MarketDataRequest", Category: "app", Fields: refs(
			req(262, 263, 264), opt(265), req(267, 269), opt(146, 55, 48, 22, 207),
		)},
		{MsgType: "W", Name: "MarketDataSnapshotFullRefresh", Category: "app", Fields: refs(
			opt(262, 55, 48, 22, 167), req(268, 269), opt(270, 15, 271, 272, 273),
		)},
		{MsgType: "X", Name: "MarketDataIncrementalRefresh", Category: "app", Fields: refs(
			opt(262), req(268, 279), opt(269, 55, 48, 22, 270, 15, 271, 272, 273),
		)},
		{MsgType: "j", Name: "BusinessMessageReject", Category: "app", Fields: refs(
			opt(45), req(372), opt(379), req(380), opt(58, 354, 355),
		)},
	}
	for _, ms := range messages {
		b.AddMessage(ms)
	}
	return b.Build()
}
