// @title           PDF QA API
// @version         1.0
// @description     Rebuilds per-document vector indexes for the PDFs in the working directory and answers questions against one of them.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3050
// @BasePath  /
// @schemes   http
package utils

//run redis (optional, cross-process index locks)
//docker run -p 6379:6379 -d redis

//run qdrant (optional, vector_store: qdrant)
//docker run -p 6333:6333 -p 6334:6334 -v vectorDBData:/qdrant/storage qdrant/qdrant

//swagger init
//swag init -g internal/adapter/utils/docs_info.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
