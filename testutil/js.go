/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package testutil

import (
	"testing"

	"github.com/dop251/goja"
)

// XHRResponse is a canned reply for the XMLHttpRequest stub.
type XHRResponse struct {
	Status     int
	StatusText string
	Body       string
}

const browserPrelude = `
var window = this;
var location = {protocol: 'http:', host: 'localhost:8080'};
var __requests = [];
function XMLHttpRequest() {}
XMLHttpRequest.prototype.open = function(method, url) {
    this.method = method;
    this.url = url;
};
XMLHttpRequest.prototype.send = function() {
    __requests.push(this.url);
    var res = __responses[this.url];
    if (!res) {
        res = {status: 404, statusText: 'Not Found', body: ''};
    }
    this.status = res.status;
    this.statusText = res.statusText;
    this.responseText = res.body;
};
`

// NewBrowser returns a JavaScript runtime that looks enough like a browser
// window for bundles to run: the global object is window, location points
// at http://localhost:8080 and XMLHttpRequest answers from responses,
// keyed by absolute URL.
func NewBrowser(t *testing.T, responses map[string]XHRResponse) *goja.Runtime {
	t.Helper()

	vm := goja.New()
	table := make(map[string]any, len(responses))
	for url, res := range responses {
		table[url] = map[string]any{
			"status":     res.Status,
			"statusText": res.StatusText,
			"body":       res.Body,
		}
	}
	if err := vm.Set("__responses", table); err != nil {
		t.Fatalf("Failed to install XHR responses: %v", err)
	}
	if _, err := vm.RunString(browserPrelude); err != nil {
		t.Fatalf("Failed to install browser prelude: %v", err)
	}
	return vm
}

// RunJS evaluates each script in order and returns the last value.
func RunJS(t *testing.T, vm *goja.Runtime, scripts ...string) goja.Value {
	t.Helper()

	var result goja.Value
	for _, script := range scripts {
		v, err := vm.RunString(script)
		if err != nil {
			t.Fatalf("JavaScript error: %v", err)
		}
		result = v
	}
	return result
}

// RunJSError evaluates script and returns the error it throws.
func RunJSError(t *testing.T, vm *goja.Runtime, script string) error {
	t.Helper()

	_, err := vm.RunString(script)
	if err == nil {
		t.Fatalf("Expected JavaScript error from %q", script)
	}
	return err
}
