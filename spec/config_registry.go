// Copyright 2025 Zintix Labs
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

package spec

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/scratchlab/errs"
	"gopkg.in/yaml.v3"
)

// GetCardSettingByYAML
// 會讀取 YAML 設定、補上預設值並執行基本檢查後回傳。
// 未知欄位視為錯誤（拼錯欄位比默默忽略更容易被發現）。
func GetCardSettingByYAML(data []byte) (*CardSetting, error) {
	cs := &CardSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	if err := cs.init(); err != nil {
		return nil, errs.Wrap(err, "card setting initialized err")
	}
	return cs, nil
}

// GetCardSettingByJSON
// 會讀取 Json 設定、補上預設值並執行基本檢查後回傳
func GetCardSettingByJSON(data []byte) (*CardSetting, error) {
	cs := &CardSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}
	if err := cs.init(); err != nil {
		return nil, errs.Wrap(err, "card setting initialized err")
	}
	return cs, nil
}
