// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// Watcher - reload a directory whenever its parties file changes
type Watcher struct {
	log       *logger.L
	directory *Directory
	filename  string
	watcher   *fsnotify.Watcher
	reloaded  chan struct{}
}

// NewWatcher - watch filename on behalf of directory
//
// the containing directory is watched so editors that replace the
// file are also seen
func NewWatcher(directory *Directory, filename string) (*Watcher, error) {
	filename, err := filepath.Abs(filepath.Clean(filename))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(filename)); nil != err {
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		log:       logger.New("identity-watcher"),
		directory: directory,
		filename:  filename,
		watcher:   watcher,
		reloaded:  make(chan struct{}, 1),
	}, nil
}

// Reloaded - signalled after each successful reload
func (w *Watcher) Reloaded() <-chan struct{} {
	return w.reloaded
}

// Run - background process loop
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Infof("watching: %q", w.filename)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.filename || !fileChanged(event) {
				continue loop
			}
			log.Infof("file event: %v", event)
			if err := w.directory.Load(w.filename); nil != err {
				log.Errorf("reload error: %s", err)
				continue loop
			}
			select {
			case w.reloaded <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	w.watcher.Close()
	log.Info("stopped")
}

func fileChanged(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}
