// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/menusync/core"
)

var stringSliceMUS = ord.NewSliceSer[string](ord.String)

// loadStateMUS is the MUS binary serializer for core.LoadState.
// Timestamps are encoded as Unix microseconds.
type loadStateMUS struct{}

// LoadStateMUS serializes core.LoadState values.
var LoadStateMUS = loadStateMUS{}

func (s loadStateMUS) Marshal(v core.LoadState, bs []byte) (n int) {
	n = ord.String.Marshal(v.RunID, bs)
	n += ord.String.Marshal(v.Date, bs[n:])
	n += ord.String.Marshal(v.SiteTag, bs[n:])
	n += stringSliceMUS.Marshal(v.Loaded, bs[n:])
	n += stringSliceMUS.Marshal(v.Failed, bs[n:])
	n += varint.Int.Marshal(v.Total, bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (s loadStateMUS) Unmarshal(bs []byte) (v core.LoadState, n int, err error) {
	var n1 int
	v.RunID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Date, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SiteTag, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Loaded, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Failed, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Total, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s loadStateMUS) Size(v core.LoadState) (size int) {
	size = ord.String.Size(v.RunID)
	size += ord.String.Size(v.Date)
	size += ord.String.Size(v.SiteTag)
	size += stringSliceMUS.Size(v.Loaded)
	size += stringSliceMUS.Size(v.Failed)
	size += varint.Int.Size(v.Total)
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return
}

func (s loadStateMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 3; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = stringSliceMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// MarshalLoadState serializes a LoadState to bytes.
func MarshalLoadState(state *core.LoadState) []byte {
	buf := make([]byte, LoadStateMUS.Size(*state))
	LoadStateMUS.Marshal(*state, buf)
	return buf
}

// UnmarshalLoadState deserializes a LoadState from bytes.
// Returns an error wrapping ErrSerializationFailed on malformed data.
func UnmarshalLoadState(data []byte) (*core.LoadState, error) {
	state, _, err := LoadStateMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &state, nil
}
