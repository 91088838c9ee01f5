// Package events decouples the services that notice something (a card was
// created) from the components that react to it (the task runner).
package events
