/*
Copyright 2019 The Salish Sea MEOPAR contributors
and The University of British Columbia

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

   https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// rpn-to-gemlam generates atmospheric forcing files for an ocean model
// from archival GEMLAM RPN weather model output.
package main

import (
	"fmt"
	"os"

	"github.com/SalishSeaCast/rpn-to-gemlam/gemlamutil"
)

func main() {
	if err := gemlamutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
