// SPDX-License-Identifier: Apache-2.0
package main

import "github.com/Work-Fort/Crucible/cmd"

func main() {
	cmd.Execute()
}
