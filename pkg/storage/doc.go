// Package storage saves downloaded images as <id>.jpg in a single output
// directory.
//
// Writes go to a temporary file in the same directory and are renamed into
// place, so a reader never sees a half-written image. The Manager keeps an
// index of ids already on disk, seeded by scanning the directory at startup,
// which the download pool uses to skip work.
//
//	manager, err := storage.NewManager("./downloads")
//	if err != nil {
//	    return err
//	}
//	if !manager.IsDownloaded(photo.ID) {
//	    path, n, err := manager.Save(photo.ID, body)
//	    ...
//	}
package storage
