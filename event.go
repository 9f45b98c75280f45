/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package lzgo

import (
	"fmt"
	"time"
)

// Event kinds emitted by member.DecodeAll and member.EncodeAll. These are the diagnostics sink
// contract of spec.md §6: a human-readable progress and error channel kept
// decoupled from the codec core.
const (
	EvtMemberStart     = 0
	EvtMemberEnd       = 1
	EvtHeaderDecoded   = 2
	EvtTrailingData    = 3
	EvtVolumeSplit     = 4
	EvtWarning         = 5
)

// Event is a compression/decompression diagnostic event.
type Event struct {
	kind      int
	memberNum int
	size      int64
	eventTime time.Time
	msg       string
}

// NewEvent creates an Event carrying a member index and a byte count.
func NewEvent(kind, memberNum int, size int64, msg string) *Event {
	return &Event{kind: kind, memberNum: memberNum, size: size, eventTime: time.Now(), msg: msg}
}

// Kind returns the event kind (one of the Evt* constants).
func (this *Event) Kind() int {
	return this.kind
}

// MemberNum returns the 0-based index of the member this event relates to.
func (this *Event) MemberNum() int {
	return this.memberNum
}

// Size returns the byte count carried by the event, if any.
func (this *Event) Size() int64 {
	return this.size
}

// Time returns when the event was created.
func (this *Event) Time() time.Time {
	return this.eventTime
}

// String returns a human-readable representation of the event.
func (this *Event) String() string {
	name := "EVENT"

	switch this.kind {
	case EvtMemberStart:
		name = "MEMBER_START"
	case EvtMemberEnd:
		name = "MEMBER_END"
	case EvtHeaderDecoded:
		name = "HEADER_DECODED"
	case EvtTrailingData:
		name = "TRAILING_DATA"
	case EvtVolumeSplit:
		name = "VOLUME_SPLIT"
	case EvtWarning:
		name = "WARNING"
	}

	if len(this.msg) > 0 {
		return fmt.Sprintf("[%s] member %d: %s", name, this.memberNum, this.msg)
	}

	return fmt.Sprintf("[%s] member %d, size %d", name, this.memberNum, this.size)
}

// Listener is implemented by diagnostics sinks.
type Listener interface {
	// ProcessEvent is called whenever the driver emits an event.
	ProcessEvent(evt *Event)
}
