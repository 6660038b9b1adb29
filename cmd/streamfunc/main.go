/*
Copyright © 2026 the streamfunc authors.
This file is part of streamfunc.

streamfunc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

streamfunc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with streamfunc.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command streamfunc is a command-line interface for calculating
// stream functions from staggered-grid velocity data.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/streamfunc/streamfuncutil"
)

func main() {
	if err := streamfuncutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
