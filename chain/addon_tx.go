// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

var (
	_ UnsignedTransaction = &CreateAddonTx{}
	_ UnsignedTransaction = &AttachAddonTx{}
)

// CreateAddonTx appends a new add-on definition to the registry.
type CreateAddonTx struct {
	*BaseTx     `serialize:"true" json:"baseTx"`
	Price       uint64 `serialize:"true" json:"price"`
	Purchasable bool   `serialize:"true" json:"purchasable"`
}

func (a *CreateAddonTx) Execute(c *TransactionContext) error {
	ci, err := activeContract(c.Database, a.Contract, KindRegistry)
	if err != nil {
		return err
	}
	if err := c.requireAdmin(ci); err != nil {
		return err
	}
	i, err := mustRegistryInfo(c, a.Contract)
	if err != nil {
		return err
	}
	id := i.NextAddonID
	if err := putRecord(c.Database, AddonKey(a.Contract, id), &AddonDefinition{
		Price:       a.Price,
		Purchasable: a.Purchasable,
	}); err != nil {
		return err
	}
	i.NextAddonID++
	if err := PutRegistryInfo(c.Database, a.Contract, i); err != nil {
		return err
	}
	c.emit(&AddonCreated{Registry: a.Contract, AddonID: id, Price: a.Price, Purchasable: a.Purchasable})
	return nil
}

func (a *CreateAddonTx) Copy() UnsignedTransaction {
	return &CreateAddonTx{BaseTx: a.BaseTx.Copy(), Price: a.Price, Purchasable: a.Purchasable}
}

// AttachAddonTx buys an add-on for a parcel. Anyone may buy an add-on for
// any existing parcel, whoever owns it.
type AttachAddonTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	AssetID uint64 `serialize:"true" json:"assetId"`
	AddonID uint64 `serialize:"true" json:"addonId"`
}

func (a *AttachAddonTx) Execute(c *TransactionContext) error {
	if _, err := activeContract(c.Database, a.Contract, KindRegistry); err != nil {
		return err
	}
	def, has, err := GetAddon(c.Database, a.Contract, a.AddonID)
	if err != nil {
		return err
	}
	if !has || !def.Purchasable {
		return ErrAddonNotPurchasable
	}
	p, has, err := GetParcel(c.Database, a.Contract, a.AssetID)
	if err != nil {
		return err
	}
	if !has {
		return ErrInvalidAsset
	}
	i, err := mustRegistryInfo(c, a.Contract)
	if err != nil {
		return err
	}
	if err := payRegistry(c, i.Ledger, a.Contract, a.Contract, def.Price); err != nil {
		return err
	}
	p.Addons = append(p.Addons, a.AddonID)
	if err := PutParcel(c.Database, a.Contract, a.AssetID, p); err != nil {
		return err
	}
	c.emit(&AddonAttached{Registry: a.Contract, AssetID: a.AssetID, AddonID: a.AddonID, Buyer: c.Sender})
	return nil
}

func (a *AttachAddonTx) Copy() UnsignedTransaction {
	return &AttachAddonTx{BaseTx: a.BaseTx.Copy(), AssetID: a.AssetID, AddonID: a.AddonID}
}
