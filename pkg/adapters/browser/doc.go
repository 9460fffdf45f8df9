// Package browser drives tours in a real Chromium page through Playwright.
//
// Session launches the browser, Page and Overlay implement the engine's
// rendering ports, and Bind wires overlay buttons, the floating help button,
// keyboard shortcuts and navigations back to the engine.
package browser
