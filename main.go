// SPDX-License-Identifier: MPL-2.0

package main

import cmd "orchestra-cli/cmd/orchestra"

func main() {
	cmd.Execute()
}
