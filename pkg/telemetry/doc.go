// Package telemetry broadcasts live dispatch activity to subscribers: an
// in-process pub/sub broker plus a websocket bridge that fans the
// broker's feed out to remote observers.
package telemetry
