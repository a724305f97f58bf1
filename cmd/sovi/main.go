/*
 * Copyright 2026 The Sovi Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"os"

	"github.com/ehmo/sovi/cmd/sovi/app"
	"github.com/ehmo/sovi/pkg/cli"
)

func main() {
	if err := run(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cmd, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		cli.ShowHelp(os.Stderr)
		return err
	}

	return app.Run(context.Background(), cmd, os.Stdout)
}
