/*
Package utils contains decorators shared by all applications: logging,
panic recovery, savepoints, tagging and metrics.
*/
package utils
