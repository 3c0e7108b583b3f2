/*
MIT License

Copyright (c) 2022 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package config loads server.Config and client.Config from a
// github.com/spf13/viper instance, decoding duration.Duration fields
// (RequestTimeout, ConnectionAttempts.Interval) through their
// encoding.TextUnmarshaler implementation, then checks the decoded values
// against the validate struct tags on those two types (go-playground/
// validator) before handing the config back to the caller.
package config

import (
	libval "github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/sabouaram/svcpipe/client"
	"github.com/sabouaram/svcpipe/errors"
	"github.com/sabouaram/svcpipe/server"
)

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
}

// Server decodes key into a server.Config, starting from
// server.DefaultConfig so fields absent from v are left at their defaults.
func Server[Req any, Resp any](v *viper.Viper, key string) (server.Config[Req, Resp], errors.Error) {
	cfg := server.DefaultConfig[Req, Resp]()
	if !v.IsSet(key) {
		return cfg, ErrorMissingKey.Error()
	}
	if err := v.UnmarshalKey(key, &cfg, decodeHook()); err != nil {
		return cfg, ErrorDecode.Error(err)
	}
	if err := libval.New().Struct(cfg); err != nil {
		return cfg, ErrorInvalid.Error(err)
	}
	return cfg, nil
}

// Client decodes key into a client.Config, starting from
// client.DefaultConfig so fields absent from v are left at their defaults.
func Client(v *viper.Viper, key string) (client.Config, errors.Error) {
	cfg := client.DefaultConfig()
	if !v.IsSet(key) {
		return cfg, ErrorMissingKey.Error()
	}
	if err := v.UnmarshalKey(key, &cfg, decodeHook()); err != nil {
		return cfg, ErrorDecode.Error(err)
	}
	if err := libval.New().Struct(cfg); err != nil {
		return cfg, ErrorInvalid.Error(err)
	}
	return cfg, nil
}
