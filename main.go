// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/warp4j/warp4j/cmd/warp4j"

func main() {
	cmd.Execute()
}
