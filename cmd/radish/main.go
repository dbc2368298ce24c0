/*
Copyright © 2024 the Radish authors.
This file is part of Radish.

Radish is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Radish is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Radish.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command radish is a command-line interface for reading weather radar files.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/radish/radishutil"
)

func main() {
	if err := radishutil.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
