// Copyright 2025 Tom Barlow
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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lorikeet-run/lorikeet/internal/config"
)

func TestDecode_Empty(t *testing.T) {
	v, err := config.Decode("")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestDecode_Mapping(t *testing.T) {
	v, err := config.Decode("host: example.com\nport: 8080\n")
	require.NoError(t, err)
	m, ok := v.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "example.com", m["host"])
	require.Equal(t, 8080, m["port"])
}

func TestDecode_NestedList(t *testing.T) {
	v, err := config.Decode("hosts:\n  - a\n  - b\n")
	require.NoError(t, err)
	m := v.(map[string]interface{})
	hosts := m["hosts"].([]interface{})
	require.Equal(t, []interface{}{"a", "b"}, hosts)
}

func TestDecode_InvalidYAML(t *testing.T) {
	_, err := config.Decode("hosts: [unclosed\n")
	require.Error(t, err)
}
