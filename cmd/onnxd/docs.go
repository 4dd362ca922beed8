package main

// General API documentation annotations in swaggo format.
//
// @title           onnxd API
// @version         1.0
// @description     HTTP API for local ONNX model serving and batched inference.
//
// @contact.name   onnxd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
