// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/colscan/lowcard/scan"
	"github.com/colscan/lowcard/vfs/factory"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the tools. Command line flags take
// precedence over the file.
//
//	fs:
//	  hdfs:
//	    user: etl
//	  s3:
//	    endpoint: s3.us-east-1.amazonaws.com
//	    region: us-east-1
//	  endpoints:
//	    oss: oss-cn-hangzhou.aliyuncs.com
//	scan:
//	  batch_size: 4096
//	  concurrency: 8
type Config struct {
	FS   factory.Options `yaml:"fs"`
	Scan scan.Options    `yaml:"scan"`
}

// loadConfig decodes the YAML file at path into cfg. Unknown keys are
// rejected.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.Wrapf(err, "parsing %s", path)
	}
	return nil
}
