package handlers

// @title CASAGATEWAY Proxy API
// @version 1.0
// @description Signs and forwards listing requests to CASAGATEWAY and returns SwissRETS XML or its JSON rendering

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api

// @tag.name properties
// @tag.description Listing retrieval

// @tag.name pagebuilder
// @tag.description Listing retrieval with image reshaping for the page builder
