// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package notary - the single point where an agreed transaction
// becomes final
//
// Commits are serialised; a transaction id or an IOU linear id can
// only ever be committed once.
package notary

import (
	"context"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ioud/contract"
	"github.com/bitmark-inc/ioud/digest"
	"github.com/bitmark-inc/ioud/endorsement"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/storage"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// Notary - commit service over local storage
type Notary struct {
	sync.Mutex
	log    *logger.L
	store  *storage.Store
	policy contract.SignerPolicy
}

// New - notary applying the given signer policy
func New(store *storage.Store, policy contract.SignerPolicy) *Notary {
	return &Notary{
		log:    logger.New("notary"),
		store:  store,
		policy: policy,
	}
}

// Commit - validate, check signatures and record a transaction
//
// returns fault.CommitConflict if the transaction or any of its output
// states was committed before
func (n *Notary) Commit(ctx context.Context, stx *transactionrecord.SignedTransaction) error {
	if err := ctx.Err(); nil != err {
		return err
	}

	if err := contract.Verify(stx.Tx, n.policy); nil != err {
		n.log.Warnf("rejected: %s", err)
		return err
	}
	if err := endorsement.VerifySignatures(stx); nil != err {
		n.log.Warnf("rejected: %s", err)
		return err
	}

	txId, err := stx.Id()
	if nil != err {
		return err
	}
	packed, err := stx.Pack()
	if nil != err {
		return err
	}

	n.Lock()
	defer n.Unlock()

	found, err := n.store.Pool.Committed.Has(txId[:])
	if nil != err {
		return err
	}
	if found {
		n.log.Warnf("duplicate txId: %s", txId)
		return fault.CommitConflict
	}

	b := n.store.NewBatch()
	b.Put(n.store.Pool.Committed, txId[:], packed)
	for _, out := range stx.Tx.Outputs {
		found, err := n.store.Pool.LinearIds.Has(out.LinearId[:])
		if nil != err {
			return err
		}
		if found {
			n.log.Warnf("txId: %s  reuses linear id: %s", txId, out.LinearId)
			return fault.CommitConflict
		}
		b.Put(n.store.Pool.LinearIds, out.LinearId[:], txId[:])
	}

	if err := n.store.Write(b); nil != err {
		n.log.Errorf("txId: %s  write error: %s", txId, err)
		return err
	}

	n.log.Infof("committed txId: %s", txId)
	return nil
}

// IsCommitted - true if the transaction id has been committed
func (n *Notary) IsCommitted(txId digest.Digest) (bool, error) {
	return n.store.Pool.Committed.Has(txId[:])
}
